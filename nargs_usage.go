package nargs

import (
	"fmt"
	"strings"

	"github.com/amterp/color"
	"github.com/mitchellh/go-wordwrap"
)

var (
	greenBold  = color.New(color.FgGreen, color.Bold)
	cyan       = color.New(color.FgCyan)
	bold       = color.New(color.Bold)
	GreenBoldS = greenBold.SprintfFunc()
	CyanS      = cyan.SprintfFunc()
	BoldS      = bold.SprintfFunc()
)

// minDescriptionWidth keeps descriptions readable on narrow terminals.
const minDescriptionWidth = 20

// UsageFormat switches parts of the usage text on or off.
type UsageFormat uint

const (
	// UsageRawDescription prints the description and epilog as given,
	// without wrapping.
	UsageRawDescription UsageFormat = 1 << iota
	// UsageRawOptionDescriptions prints option descriptions without wrapping.
	UsageRawOptionDescriptions
	UsageHideDescription
	UsageHideEpilog
	// UsageHideShortUsage drops the Usage section.
	UsageHideShortUsage

	UsageRawHelp = UsageRawDescription | UsageRawOptionDescriptions
)

// SetUsageFormat replaces the usage format switches.
func (r *Registry) SetUsageFormat(f UsageFormat) *Registry {
	r.usageFormat = f
	return r
}

func (r *Registry) UsageFormat() UsageFormat {
	return r.usageFormat
}

// GenerateUsage renders the help text: description, synopsis, positional
// arguments, options and epilog.
func (r *Registry) GenerateUsage() string {
	r.ensureHelpLogged()
	restore := r.applyColorFlag()
	defer restore()

	var sb strings.Builder
	if r.description != "" && r.usageFormat&UsageHideDescription == 0 {
		sb.WriteString(r.wrapText(r.description) + "\n\n")
	}

	if r.usageFormat&UsageHideShortUsage == 0 {
		sb.WriteString(GreenBoldS("Usage:") + "\n  ")
		sb.WriteString(r.generateSynopsis())
		sb.WriteString("\n")
	}

	var positional, named []*Option
	for _, opt := range r.options {
		if opt.positional {
			positional = append(positional, opt)
		} else {
			named = append(named, opt)
		}
	}
	if len(positional) > 0 {
		r.writeSectionBreak(&sb)
		sb.WriteString(GreenBoldS("Arguments:") + "\n")
		sb.WriteString(r.formatOptions(positional))
	}
	if len(named) > 0 {
		r.writeSectionBreak(&sb)
		sb.WriteString(GreenBoldS("Options:") + "\n")
		sb.WriteString(r.formatOptions(named))
	}

	if r.epilog != "" && r.usageFormat&UsageHideEpilog == 0 {
		r.writeSectionBreak(&sb)
		sb.WriteString(r.wrapText(r.epilog) + "\n")
	}
	return sb.String()
}

// GenerateShortUsage renders the one-paragraph form: program name, then every
// named option, then the positional arguments. Optional entries are
// bracketed. Lines wrap at the usage width, indented under the first entry.
func (r *Registry) GenerateShortUsage() string {
	r.ensureHelpLogged()
	restore := r.applyColorFlag()
	defer restore()

	head := "Usage: " + r.name
	indent := strings.Repeat(" ", len(head))
	width := r.width()

	var sb strings.Builder
	sb.WriteString(GreenBoldS("Usage:") + " " + BoldS(r.name))
	lineLen := len(head)
	add := func(opt *Option) {
		entry := opt.shortEntry()
		if lineLen+1+len(entry) > width && lineLen > len(head) {
			sb.WriteString("\n" + indent)
			lineLen = len(head)
		}
		sb.WriteString(" " + CyanS("%s", entry))
		lineLen += 1 + len(entry)
	}
	for _, opt := range r.options {
		if !opt.positional {
			add(opt)
		}
	}
	for _, opt := range r.options {
		if opt.positional {
			add(opt)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// writeSectionBreak separates a section from whatever came before it.
func (r *Registry) writeSectionBreak(sb *strings.Builder) {
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
}

func (r *Registry) generateSynopsis() string {
	var sb strings.Builder
	sb.WriteString(BoldS(r.name))

	hasNamed := false
	for _, opt := range r.options {
		if !opt.positional {
			hasNamed = true
			continue
		}
		argName := opt.displayMetavar()
		if opt.arity == OneOrMore || opt.arity == ZeroOrMore || opt.arity > 1 {
			argName += "..."
		}
		if opt.Required() {
			sb.WriteString(" " + CyanS("<%s>", argName))
		} else {
			sb.WriteString(" " + CyanS("[%s]", argName))
		}
	}
	if hasNamed {
		sb.WriteString(" " + CyanS("[OPTIONS]"))
	}
	return sb.String()
}

func (r *Registry) formatOptions(opts []*Option) string {
	// First pass: left column and its width
	lefts := make([]string, len(opts))
	maxWidth := 0
	for i, opt := range opts {
		var left string
		if opt.positional {
			left = "  " + opt.Name()
			if spec := opt.argSpec(); spec != "" {
				left += " " + spec
			}
		} else {
			left = "  " + strings.Join(namesShortestFirst(opt.names), ", ")
			if spec := opt.argSpec(); spec != "" {
				left += " " + spec
			}
		}
		lefts[i] = left
		maxWidth = max(maxWidth, len(left))
	}

	// Use dynamic alignment: longest left side + 3 spaces
	col := maxWidth + 3

	var sb strings.Builder
	for i, opt := range opts {
		sb.WriteString(lefts[i])
		text := opt.describe()
		if text == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(strings.Repeat(" ", col-len(lefts[i])))
		if r.usageFormat&UsageRawOptionDescriptions != 0 {
			sb.WriteString(text)
		} else {
			sb.WriteString(r.wrap(text, col))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// wrapText is wrap at column zero unless UsageRawDescription is set.
func (r *Registry) wrapText(text string) string {
	if r.usageFormat&UsageRawDescription != 0 {
		return text
	}
	return r.wrap(text, 0)
}

// wrap fits text into the usage width starting at column indent.
func (r *Registry) wrap(text string, indent int) string {
	limit := max(r.width()-indent, minDescriptionWidth)
	lines := strings.Split(wordwrap.WrapString(text, uint(limit)), "\n")
	return strings.Join(lines, "\n"+strings.Repeat(" ", indent))
}

// applyColorFlag turns colors off for the duration of a render when the
// registry has FlagNoColor set.
func (r *Registry) applyColorFlag() func() {
	if r.flags&FlagNoColor == 0 {
		return func() {}
	}
	prev := color.NoColor
	color.NoColor = true
	return func() { color.NoColor = prev }
}

// displayMetavar is the placeholder for one value.
func (o *Option) displayMetavar() string {
	if o.metavar != "" {
		return o.metavar
	}
	if o.positional {
		return o.Name()
	}
	return o.valueType.String()
}

// argSpec shows the values an option takes, e.g. "int", "int int int",
// "str [str ...]".
func (o *Option) argSpec() string {
	if o.isFlag() {
		return ""
	}
	meta := o.valueType.String()
	if o.metavar != "" {
		meta = o.metavar
	}
	switch o.arity {
	case OneOrMore:
		return fmt.Sprintf("%s [%s ...]", meta, meta)
	case ZeroOrMore:
		return fmt.Sprintf("[%s ...]", meta)
	case ZeroOrOne:
		return fmt.Sprintf("[%s]", meta)
	}
	n := int(o.arity)
	if n <= 3 {
		return strings.TrimSpace(strings.Repeat(meta+" ", n))
	}
	return fmt.Sprintf("%s{%d}", meta, n)
}

// shortEntry is the option as it appears in the short usage, e.g.
// "[--count int]", "--port int" or "<file>".
func (o *Option) shortEntry() string {
	var entry string
	if o.positional {
		entry = o.displayMetavar()
		if o.arity == OneOrMore || o.arity == ZeroOrMore || o.arity > 1 {
			entry += "..."
		}
	} else {
		entry = o.Name()
		if spec := o.argSpec(); spec != "" {
			entry += " " + spec
		}
	}
	switch {
	case !o.Required():
		return "[" + entry + "]"
	case o.positional:
		return "<" + entry + ">"
	}
	return entry
}

// describe is the right column: usage text plus markers.
func (o *Option) describe() string {
	var parts []string
	if o.usage != "" {
		parts = append(parts, o.usage)
	}
	if !o.positional && o.Required() {
		parts = append(parts, "(required)")
	}
	if o.positional && !o.Required() {
		parts = append(parts, "(optional)")
	}
	if o.defaultText != "" && !(o.valueType == TypeBool && o.defaultText == "false") {
		parts = append(parts, fmt.Sprintf("(default %s)", o.defaultText))
	}
	return strings.Join(parts, " ")
}
