package cli

import (
	"io"
	"os"
	"strings"
)

type style string

const (
	styleValid   style = "\x1b[1;32m"
	styleInvalid style = "\x1b[1;31m"
	styleMuted   style = "\x1b[2m"
	styleReset         = "\x1b[0m"
)

// renderer colors report keywords when out is an interactive terminal.
type renderer struct {
	color bool
}

func newRenderer(out io.Writer) renderer {
	return renderer{color: wantsColor(out, os.Getenv)}
}

// wantsColor honors NO_COLOR and a dumb or missing TERM before checking
// that out is a character device.
func wantsColor(out io.Writer, getenv func(string) string) bool {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" {
		return false
	}
	switch strings.TrimSpace(getenv("TERM")) {
	case "", "dumb":
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func (r renderer) paint(s style, text string) string {
	if !r.color || text == "" {
		return text
	}
	return string(s) + text + styleReset
}

func (r renderer) ok(text string) string {
	return r.paint(styleValid, text)
}

func (r renderer) err(text string) string {
	return r.paint(styleInvalid, text)
}

func (r renderer) dim(text string) string {
	return r.paint(styleMuted, text)
}
