package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

// palette applies colours only when enabled.
type palette struct {
	enabled bool
}

func newPalette(mode string, writer io.Writer) palette {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return palette{enabled: true}
	case "never":
		return palette{}
	default:
		return palette{enabled: shouldColorize(writer)}
	}
}

func (p palette) paint(value string, colors ...text.Color) string {
	if !p.enabled || value == "" {
		return value
	}
	return text.Colors(colors).Sprint(value)
}

func (p palette) status(kind statusKind, message string) string {
	label := fmt.Sprintf("[%s] %s", statusLabel(kind), message)
	switch kind {
	case statusOK:
		return p.paint(label, text.FgGreen)
	case statusWarn:
		return p.paint(label, text.FgYellow)
	case statusError:
		return p.paint(label, text.FgRed)
	default:
		return p.paint(label, text.FgBlue)
	}
}

func (p palette) section(title string) string {
	return p.paint(fmt.Sprintf("== %s ==", strings.TrimSpace(title)), text.Bold, text.FgBlue)
}

// similarity colours strong matches green and weak ones red.
func (p palette) similarity(value float64, rendered string) string {
	switch {
	case value >= 0.9:
		return p.paint(rendered, text.FgGreen)
	case value >= 0.8:
		return p.paint(rendered, text.FgYellow)
	default:
		return p.paint(rendered, text.FgRed)
	}
}

func statusLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
