package platform

// Package platform contains filesystem glue: output path resolution, directory
// creation and the model descriptor file.
