package progress

// Mode is the closed set of display modes: Determinate or Indeterminate.
type Mode interface {
	isMode()
}

// Determinate is used when the total size is known up front.
type Determinate struct {
	Total int64
}

// Indeterminate is used when the server did not declare a content length.
type Indeterminate struct{}

func (Determinate) isMode()   {}
func (Indeterminate) isMode() {}

// ModeForLength returns the display mode for a declared content length,
// where a negative length means unknown.
func ModeForLength(contentLength int64) Mode {
	if contentLength < 0 {
		return Indeterminate{}
	}
	return Determinate{Total: contentLength}
}

// Reporter receives progress events from the download loop.
type Reporter interface {
	// Start is called once before the first chunk.
	Start(mode Mode)
	// Advance is called after each chunk is written.
	Advance(n int64)
	// Finish replaces the live display with a static message.
	Finish(message string)
}

// Nop discards all progress events.
type Nop struct{}

func (Nop) Start(Mode)    {}
func (Nop) Advance(int64) {}
func (Nop) Finish(string) {}
