//go:build unix

package input

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ttySource reads stdin in raw mode with zero-timeout polls
type ttySource struct {
	in      *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	buf     []byte
}

// NewTTYSource returns a byte source over stdin
func NewTTYSource() ByteSource {
	return &ttySource{
		in:    os.Stdin,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, 256),
	}
}

func (s *ttySource) Open() error {
	if !term.IsTerminal(s.inFd) {
		return ErrNotTerminal
	}
	old, err := term.MakeRaw(s.inFd)
	if err != nil {
		return fmt.Errorf("input: raw mode: %w", err)
	}
	s.oldTerm = old
	return nil
}

func (s *ttySource) Close() {
	if s.oldTerm != nil {
		term.Restore(s.inFd, s.oldTerm)
		s.oldTerm = nil
	}
}

func (s *ttySource) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(s.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// ReadAvailable polls with a zero timeout and reads at most one buffer
func (s *ttySource) ReadAvailable() ([]byte, error) {
	fds := []unix.PollFd{
		{Fd: int32(s.inFd), Events: unix.POLLIN},
	}

	n, err := unix.Poll(fds, 0)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	rn, err := unix.Read(s.inFd, s.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, err
	}
	if rn == 0 {
		return nil, nil
	}

	ret := make([]byte, rn)
	copy(ret, s.buf[:rn])
	return ret, nil
}
