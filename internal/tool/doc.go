package tool

// Package tool runs the optional external model tool. Locating and running the
// executable are separate capabilities so callers can stub either one.
