package progress

// Package progress renders download progress in the terminal. A Mode selects
// between a determinate byte bar and a self-refreshing spinner; the download
// loop only talks to the Reporter interface.
