// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Ticks controls whether verbose per-tick logs are shown (hand frames,
// collision pairs, state transitions). Use --debug-ticks to enable these
// very verbose logs.
var Ticks bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// Logln prints a message with newline only if debug mode is enabled
func Logln(msg string) {
	if Enabled {
		fmt.Println(msg)
	}
}

// TickLog prints a message only if per-tick debug mode is enabled
func TickLog(format string, args ...interface{}) {
	if Ticks {
		fmt.Printf(format, args...)
	}
}

// TickLogln prints a message with newline only if per-tick debug mode is enabled
func TickLogln(msg string) {
	if Ticks {
		fmt.Println(msg)
	}
}
