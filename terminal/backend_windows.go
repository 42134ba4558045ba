//go:build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

type windowsOutput struct {
	out    *os.File
	handle windows.Handle
	mode   uint32
	saved  bool
}

func newOutput() Output {
	return &windowsOutput{
		out:    os.Stdout,
		handle: windows.Handle(os.Stdout.Fd()),
	}
}

// Init enables virtual terminal processing so escape sequences are interpreted
// A console that rejects the mode query keeps its default flags
func (o *windowsOutput) Init() error {
	var mode uint32
	if err := windows.GetConsoleMode(o.handle, &mode); err != nil {
		return nil
	}
	o.mode = mode
	o.saved = true
	_ = windows.SetConsoleMode(o.handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING|windows.ENABLE_PROCESSED_OUTPUT)
	return nil
}

func (o *windowsOutput) Write(p []byte) (int, error) {
	return o.out.Write(p)
}

func (o *windowsOutput) Size() (int, int) {
	w, h, err := term.GetSize(int(o.handle))
	if err != nil {
		return 80, 24
	}
	return w, h
}

// restore puts back the console mode captured by Init
func (o *windowsOutput) restore() {
	if o.saved {
		_ = windows.SetConsoleMode(o.handle, o.mode)
	}
}

// resetTerminalMode restores stdout console mode when possible
func resetTerminalMode() {
	h := windows.Handle(os.Stdout.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err == nil {
		_ = windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
