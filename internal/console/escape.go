//go:build linux

package console

import "strings"

// EscapeByte derives the escape control byte from a user expression,
// grounded on original_source/src/lxc/lxc_console.c's etoc(): if the
// expression begins with '^', take the following character;
// otherwise take the first character; apply the standard
// control-letter mapping. Default escape is Ctrl-A (0x01).
func EscapeByte(expr string) byte {
	if expr == "" {
		return 1
	}
	c := expr[0]
	if c == '^' && len(expr) > 1 {
		c = expr[1]
	}
	c = strings.ToUpper(string(c))[0]
	return 1 + (c - 'A')
}
