//go:build windows

package input

import "fmt"

// NewBackend returns the native console backend; the tcell binding is
// available as an alternative, the raw tty binding is not
func NewBackend(opts Options) (Backend, error) {
	log := opts.logger()
	switch opts.Binding {
	case "", BindingRaw:
		return NewConsoleBackend(log), nil
	case BindingTcell:
		return NewCursesBackend(NewTcellBinding(nil), opts.EscapeTimeout, log), nil
	default:
		return nil, fmt.Errorf("input: unknown binding %q", opts.Binding)
	}
}
