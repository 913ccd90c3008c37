package config

// Package config resolves runtime settings from the environment, an optional
// .env file and command-line overrides.
