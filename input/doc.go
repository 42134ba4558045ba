// Package input normalizes platform keyboard and mouse input into Event values.
//
// Two acquisition paths exist. On Windows, ConsoleBackend reads native console
// input records and DecodeConsoleRecord translates them. Elsewhere,
// CursesBackend reads integer key codes from a Binding (a raw tty keypad
// translator or a tcell screen) and runs them through a small decoder that
// pairs ESC-prefixed codes into Alt chords. A lone ESC is held until the next
// code arrives or the escape timeout lapses.
//
// Backends never block and never return errors from Poll; an idle or broken
// source simply reports no event.
package input
