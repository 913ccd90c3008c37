package model

// Package model defines domain data structures shared by the pipeline stages:
// the download request parsed from the command line, the outcome of the
// optional external tool invocation and the typed error kinds that decide the
// process exit code.
