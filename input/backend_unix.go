//go:build unix

package input

import "fmt"

// NewBackend returns the curses-style backend over the selected binding
func NewBackend(opts Options) (Backend, error) {
	log := opts.logger()
	switch opts.Binding {
	case "", BindingRaw:
		return NewCursesBackend(NewRawBinding(NewTTYSource(), log), opts.EscapeTimeout, log), nil
	case BindingTcell:
		return NewCursesBackend(NewTcellBinding(nil), opts.EscapeTimeout, log), nil
	default:
		return nil, fmt.Errorf("input: unknown binding %q", opts.Binding)
	}
}
