package terminal

import "io"

// Output abstracts the platform terminal the renderer writes to
type Output interface {
	io.Writer

	// Init prepares the output device (console modes on Windows); failures are non-fatal
	Init() error

	// Size returns the current terminal dimensions
	Size() (width, height int)
}

// NewOutput returns the output backend for stdout on this platform
func NewOutput() Output {
	return newOutput()
}

// writerOutput adapts any writer with a fixed or callback size, used for tests and pipes
type writerOutput struct {
	io.Writer
	size func() (int, int)
}

// NewWriterOutput wraps w; size is queried on every Size call
func NewWriterOutput(w io.Writer, size func() (int, int)) Output {
	return &writerOutput{Writer: w, size: size}
}

func (o *writerOutput) Init() error { return nil }

func (o *writerOutput) Size() (int, int) {
	if o.size == nil {
		return 80, 24
	}
	return o.size()
}
