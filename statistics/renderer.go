package statistics

import (
	"fmt"
	"io"
	"os"
)

// Renderer is the sink for human-readable statistics reports. It is not
// part of the dispatch path.
type Renderer interface {
	Render(message string)
}

// RendererFunc is a function adapter for Renderer.
type RendererFunc func(message string)

// Render implements the Renderer interface.
func (f RendererFunc) Render(message string) { f(message) }

// ConsoleRenderer writes report lines to an io.Writer, one per Render call.
type ConsoleRenderer struct {
	w io.Writer
}

// NewConsoleRenderer creates a renderer writing to w. A nil writer means
// standard output.
func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleRenderer{w: w}
}

// Render implements the Renderer interface.
func (c *ConsoleRenderer) Render(message string) {
	fmt.Fprintln(c.w, message)
}
