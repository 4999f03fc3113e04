package colors

import "fmt"

// enabled tracks whether ANSI coloring is currently enabled. Coloring is on by default and can be toggled globally,
// e.g. when output is redirected to a file or the user passes a no-color flag.
var enabled = true

// EnableColor turns on ANSI coloring for all Colorize calls.
func EnableColor() {
	enabled = true
}

// DisableColor turns off ANSI coloring for all Colorize calls.
func DisableColor() {
	enabled = false
}

// Colorize returns the string s wrapped in ANSI code c
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
func Colorize(s any, c Color) string {
	// If coloring is disabled then just return the original string
	if !enabled {
		return fmt.Sprintf("%v", s)
	}

	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
