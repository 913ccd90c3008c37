package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ytget/modelfetch/internal/download"
)

// Settings keys, read from the environment or a .env file
const (
	KeyDownloadDir = "MODELFETCH_DIRECTORY"
	KeyToolName    = "MODELFETCH_TOOL"
	KeyChunkSize   = "MODELFETCH_CHUNK_SIZE"
	KeyQuiet       = "MODELFETCH_QUIET"
)

// Default values
const (
	DefaultDownloadDir = "."
	DefaultToolName    = "ollama"
	DefaultChunkSize   = download.DefaultChunkSize
	DefaultQuiet       = false
)

// Chunk size bounds in bytes
const (
	MinChunkSize = 1024
	MaxChunkSize = 8 * 1024 * 1024
)

// Settings manages application configuration
type Settings struct {
	lookup    func(key string) (string, bool)
	overrides map[string]string
}

// Load reads optional .env files into the process environment and returns
// settings backed by it. Missing files are ignored.
func Load(files ...string) *Settings {
	_ = godotenv.Load(files...)
	return NewSettings(os.LookupEnv)
}

// NewSettings creates a settings manager on top of an environment lookup
func NewSettings(lookup func(key string) (string, bool)) *Settings {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Settings{
		lookup:    lookup,
		overrides: make(map[string]string),
	}
}

func (s *Settings) get(key string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	v, _ := s.lookup(key)
	return strings.TrimSpace(v)
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.get(KeyDownloadDir)
	if dir == "" {
		return DefaultDownloadDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.overrides[KeyDownloadDir] = dir
}

// GetToolName returns the external tool executable name
func (s *Settings) GetToolName() string {
	name := s.get(KeyToolName)
	if name == "" {
		return DefaultToolName
	}
	return name
}

// SetToolName sets the external tool executable name
func (s *Settings) SetToolName(name string) {
	s.overrides[KeyToolName] = name
}

// GetChunkSize returns the read buffer size used while streaming
func (s *Settings) GetChunkSize() int {
	value, err := strconv.Atoi(s.get(KeyChunkSize))
	if err != nil || value <= 0 {
		return DefaultChunkSize
	}
	return clampChunkSize(value)
}

// SetChunkSize sets the read buffer size
func (s *Settings) SetChunkSize(size int) {
	s.overrides[KeyChunkSize] = strconv.Itoa(clampChunkSize(size))
}

// GetQuiet returns whether the progress display is disabled
func (s *Settings) GetQuiet() bool {
	value, err := strconv.ParseBool(s.get(KeyQuiet))
	if err != nil {
		return DefaultQuiet
	}
	return value
}

// SetQuiet sets whether the progress display is disabled
func (s *Settings) SetQuiet(quiet bool) {
	s.overrides[KeyQuiet] = strconv.FormatBool(quiet)
}

func clampChunkSize(size int) int {
	if size < MinChunkSize {
		return MinChunkSize
	}
	if size > MaxChunkSize {
		return MaxChunkSize
	}
	return size
}
