package model

// ToolStatus represents the result of the optional external tool step
type ToolStatus string

const (
	// ToolStatusNotFound means the executable is not on the search path
	ToolStatusNotFound ToolStatus = "NotFound"

	// ToolStatusSucceeded means the tool ran and exited with status 0
	ToolStatusSucceeded ToolStatus = "Succeeded"

	// ToolStatusFailed means the tool ran and exited with a non-zero status
	ToolStatusFailed ToolStatus = "Failed"

	// ToolStatusSpawnFailed means the tool was found but could not be started
	ToolStatusSpawnFailed ToolStatus = "SpawnFailed"
)

// String returns the string representation of ToolStatus
func (ts ToolStatus) String() string {
	return string(ts)
}

// Ran returns true if the tool process was started and exited
func (ts ToolStatus) Ran() bool {
	return ts == ToolStatusSucceeded || ts == ToolStatusFailed
}

// IsFailure returns true if the tool was found but did not succeed
func (ts ToolStatus) IsFailure() bool {
	return ts == ToolStatusFailed || ts == ToolStatusSpawnFailed
}

// ToolOutcome describes what happened when the external tool step ran
type ToolOutcome struct {
	Status   ToolStatus
	Path     string // resolved executable, empty when not found
	ExitCode int    // -1 unless the process exited
	Stdout   string
	Stderr   string
	Err      error // spawn or wait error, nil on success
}
