package cli

// Package cli exposes the command line: flag parsing with cobra, URL
// validation, the download pipeline and the mapping of failures to exit codes.
