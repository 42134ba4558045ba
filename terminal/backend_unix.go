//go:build unix

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

type unixOutput struct {
	out   *os.File
	outFd int
}

func newOutput() Output {
	return &unixOutput{
		out:   os.Stdout,
		outFd: int(os.Stdout.Fd()),
	}
}

func (o *unixOutput) Init() error {
	return nil
}

func (o *unixOutput) Write(p []byte) (int, error) {
	return o.out.Write(p)
}

func (o *unixOutput) Size() (int, int) {
	return getTerminalSize(o.outFd)
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24 // Fallback
	}
	return int(ws.Col), int(ws.Row)
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	// Try to restore via /dev/tty (works even if stdin redirected)
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		fd := int(tty.Fd())
		if termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err == nil {
			termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
			termios.Iflag |= unix.ICRNL
			unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
		}
	}
}
