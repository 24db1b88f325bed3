package nargs

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/amterp/color"
)

var (
	markerPrimary   = color.New(color.FgRed, color.Bold)
	markerSecondary = color.New(color.FgYellow)
)

// Highlight marks one argv token in FormatArgs output.
type Highlight struct {
	Index  int
	Marker rune         // '^' when zero
	Color  *color.Color // defaults by marker: red for '^', yellow otherwise
}

// FormatArgs renders args from start on, with a second line underlining the
// highlighted tokens:
//
//	prog --alpha 1 --alpha 3
//	     ^^^^^^^   ~~~~~~~
func (r *Registry) FormatArgs(args []string, start int, highlights ...Highlight) string {
	return formatArgs(args, start, r.flags&FlagNoColor == 0, highlights)
}

// FormatArgs is the registry-independent form of Registry.FormatArgs.
func FormatArgs(args []string, start int, highlights ...Highlight) string {
	return formatArgs(args, start, true, highlights)
}

func formatArgs(args []string, start int, useColor bool, highlights []Highlight) string {
	if start < 0 || start > len(args) {
		start = 0
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(args[start:], " "))
	sb.WriteString("\n")

	hs := make([]Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.Index >= start && h.Index < len(args) {
			hs = append(hs, h)
		}
	}
	if len(hs) == 0 {
		return sb.String()
	}
	slices.SortStableFunc(hs, func(a, b Highlight) int {
		return cmp.Compare(a.Index, b.Index)
	})

	// Column of each token on the first line.
	columns := make([]int, len(args))
	col := 0
	for i := start; i < len(args); i++ {
		columns[i] = col
		col += utf8.RuneCountInString(args[i]) + 1
	}

	var line strings.Builder
	written := 0
	for _, h := range hs {
		if columns[h.Index] < written {
			continue // same token highlighted twice
		}
		line.WriteString(strings.Repeat(" ", columns[h.Index]-written))
		width := max(utf8.RuneCountInString(args[h.Index]), 1)
		marker := h.Marker
		if marker == 0 {
			marker = '^'
		}
		mark := strings.Repeat(string(marker), width)
		if useColor {
			mark = highlightColor(h, marker).Sprint(mark)
		}
		line.WriteString(mark)
		written = columns[h.Index] + width
	}
	sb.WriteString(line.String())
	sb.WriteString("\n")
	return sb.String()
}

func highlightColor(h Highlight, marker rune) *color.Color {
	if h.Color != nil {
		return h.Color
	}
	if marker == '^' {
		return markerPrimary
	}
	return markerSecondary
}
