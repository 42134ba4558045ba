// @focus: #sys { term }
// Package terminal draws a grid.Grid onto an ANSI terminal.
//
// Features:
//   - 24-bit color output with one escape group per same-style run
//   - Dirty-cell tracking: only changed cells are emitted, full refresh after resize
//   - Re-entrancy guarded Update with cursor hide/restore around each pass
//   - Alternate screen, autowrap and SGR mouse mode lifecycle
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
package terminal
