// Package output handles CLI output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// Output handles CLI output formatting. In JSON mode the human-facing
// helpers are silent and only JSON is emitted.
type Output struct {
	jsonMode bool
	disabled bool
	profile  termenv.Profile
}

// New creates a new Output instance.
func New(jsonMode bool) *Output {
	noColor := os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
	return &Output{
		jsonMode: jsonMode,
		disabled: noColor,
		profile:  termenv.ColorProfile(),
	}
}

func (o *Output) color(text, hex string) string {
	if o.disabled {
		return text
	}
	return termenv.String(text).Foreground(o.profile.Color(hex)).String()
}

func (o *Output) bold(text string) string {
	if o.disabled {
		return text
	}
	return termenv.String(text).Bold().String()
}

// Success prints a success message.
func (o *Output) Success(format string, args ...any) {
	if o.jsonMode {
		return
	}
	fmt.Printf(o.color("✓ ", "#50FA7B")+format+"\n", args...)
}

// Error prints an error message.
func (o *Output) Error(format string, args ...any) {
	if o.jsonMode {
		return
	}
	fmt.Fprintf(os.Stderr, o.color("✗ ", "#FF5555")+format+"\n", args...)
}

// Warn prints a warning message.
func (o *Output) Warn(format string, args ...any) {
	if o.jsonMode {
		return
	}
	fmt.Printf(o.color("! ", "#F1FA8C")+format+"\n", args...)
}

// Info prints an info message.
func (o *Output) Info(format string, args ...any) {
	if o.jsonMode {
		return
	}
	fmt.Printf(o.color("→ ", "#8BE9FD")+format+"\n", args...)
}

// Header prints a header.
func (o *Output) Header(text string) {
	if o.jsonMode {
		return
	}
	fmt.Println(o.bold(text))
}

// KeyValue prints a key-value pair.
func (o *Output) KeyValue(key, value string) {
	if o.jsonMode {
		return
	}
	fmt.Printf("  %s: %s\n", o.color(key, "#6272A4"), value)
}

// Divider prints a divider line.
func (o *Output) Divider() {
	if o.jsonMode {
		return
	}
	fmt.Println(o.color("─────────────────────────────────────────", "#6272A4"))
}

// JSON prints data as JSON.
func (o *Output) JSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
