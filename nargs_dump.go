package nargs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptionInfo is the read-only view of an option handed to renderers.
type OptionInfo struct {
	Names      []string `yaml:"names"`
	Type       string   `yaml:"type"`
	Arity      string   `yaml:"arity"`
	Format     string   `yaml:"format"`
	Positional bool     `yaml:"positional"`
	Required   bool     `yaml:"required"`
	Unique     bool     `yaml:"unique,omitempty"`
	Ownership  string   `yaml:"ownership"`
	MaxLength  int      `yaml:"max_length,omitempty"`
	Metavar    string   `yaml:"metavar,omitempty"`
	Default    string   `yaml:"default,omitempty"`
	Usage      string   `yaml:"usage,omitempty"`
}

type registryInfo struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Prefix      string       `yaml:"prefix"`
	AutoHelp    bool         `yaml:"auto_help"`
	MaxWidth    int          `yaml:"max_width"`
	Options     []OptionInfo `yaml:"options"`
}

// Describe lists every option in registration order.
func (r *Registry) Describe() []OptionInfo {
	infos := make([]OptionInfo, 0, len(r.options))
	for _, opt := range r.options {
		infos = append(infos, opt.info())
	}
	return infos
}

// WriteYAML writes the registry configuration and its options as YAML.
func (r *Registry) WriteYAML(w io.Writer) error {
	if err := r.ensureHelp(); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(registryInfo{
		Name:        r.name,
		Description: r.description,
		Prefix:      r.prefix,
		AutoHelp:    r.autoHelp,
		MaxWidth:    r.width(),
		Options:     r.Describe(),
	}); err != nil {
		return err
	}
	return enc.Close()
}

func (o *Option) info() OptionInfo {
	return OptionInfo{
		Names:      o.Names(),
		Type:       o.valueType.String(),
		Arity:      o.arity.String(),
		Format:     o.format(),
		Positional: o.positional,
		Required:   o.Required(),
		Unique:     o.Unique(),
		Ownership:  o.Ownership().String(),
		MaxLength:  o.maxLength,
		Metavar:    o.metavar,
		Default:    o.defaultText,
		Usage:      o.usage,
	}
}

// format renders the option's shape back in the format mini-language.
func (o *Option) format() string {
	var sb strings.Builder
	if o.Ownership() == CallerOwned && (o.IsArray() || o.valueType == TypeString) {
		sb.WriteByte('.')
	}
	if o.IsArray() {
		sb.WriteByte('[')
	}
	sb.WriteByte(o.valueType.formatChar())
	if o.maxLength > 0 {
		fmt.Fprintf(&sb, "#%d", o.maxLength)
	}
	if o.IsArray() {
		sb.WriteByte(']')
		switch o.arity {
		case OneOrMore, ZeroOrMore, ZeroOrOne:
			sb.WriteString(o.arity.String())
		default:
			fmt.Fprintf(&sb, "#%d", int(o.arity))
		}
	}
	return sb.String()
}

// GenerateDump describes the registry, the parse options and args without parsing.
func (r *Registry) GenerateDump(args []string, opts ...ParseOpt) string {
	r.ensureHelpLogged()
	restore := r.applyColorFlag()
	defer restore()

	var sb strings.Builder
	sb.WriteString(GreenBoldS("Nargs Registry Dump") + "\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(r.generateParseConfigSection(opts...))
	sb.WriteString(r.generateRegistryInfoSection())
	sb.WriteString(r.generateArgumentsToParseSection(args))
	sb.WriteString(r.generateOptionsStructureSection())
	sb.WriteString(r.generateEnvironmentSection())
	return sb.String()
}

func (r *Registry) generateParseConfigSection(opts ...ParseOpt) string {
	var sb strings.Builder
	cfg := newParseCfg(opts)

	sb.WriteString(GreenBoldS("Parse Configuration:") + "\n")
	sb.WriteString(fmt.Sprintf("  Start Index: %s\n", BoldS("%d", cfg.startIndex)))
	sb.WriteString(fmt.Sprintf("  Ignore Unknown: %s\n", BoldS("%t", cfg.ignoreUnknown)))
	sb.WriteString(fmt.Sprintf("  Dump Enabled: %s\n", BoldS("%t", cfg.dump)))
	sb.WriteString("\n")
	return sb.String()
}

func (r *Registry) generateRegistryInfoSection() string {
	var sb strings.Builder
	sb.WriteString(GreenBoldS("Registry Information:") + "\n")
	sb.WriteString(fmt.Sprintf("  Name: %s\n", BoldS(r.name)))
	if r.description != "" {
		sb.WriteString(fmt.Sprintf("  Description: %s\n", BoldS(r.description)))
	} else {
		sb.WriteString(fmt.Sprintf("  Description: %s\n", CyanS("<not set>")))
	}
	sb.WriteString(fmt.Sprintf("  Prefix: %s\n", BoldS("%q", r.prefix)))
	sb.WriteString(fmt.Sprintf("  Auto Help: %s\n", BoldS("%t", r.autoHelp)))
	sb.WriteString(fmt.Sprintf("  Auto Clean: %s\n", BoldS("%t", r.flags&FlagAutoClean != 0)))
	sb.WriteString(fmt.Sprintf("  Error Output: %s\n", BoldS("%t", r.flags&FlagNoErrOutput == 0)))
	sb.WriteString("\n")
	return sb.String()
}

func (r *Registry) generateArgumentsToParseSection(args []string) string {
	var sb strings.Builder
	sb.WriteString(GreenBoldS("Arguments to Parse:") + "\n")
	if len(args) == 0 {
		sb.WriteString("  " + CyanS("<no arguments>") + "\n")
	}
	for i, arg := range args {
		sb.WriteString(fmt.Sprintf("  [%d]: %s\n", i, BoldS("%q", arg)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Registry) generateOptionsStructureSection() string {
	var sb strings.Builder
	var positional, named []*Option
	for _, opt := range r.options {
		if opt.positional {
			positional = append(positional, opt)
		} else {
			named = append(named, opt)
		}
	}

	sb.WriteString(GreenBoldS("Options Structure:") + "\n")
	sb.WriteString(fmt.Sprintf("  Total Options: %s\n", BoldS("%d", len(r.options))))
	sb.WriteString(fmt.Sprintf("  Positional Options: %s\n", BoldS("%d", len(positional))))
	sb.WriteString(fmt.Sprintf("  Named Options: %s\n", BoldS("%d", len(named))))
	sb.WriteString("\n")

	if len(positional) > 0 {
		sb.WriteString(GreenBoldS("  Positional Options (in order):") + "\n")
		for i, opt := range positional {
			sb.WriteString(fmt.Sprintf("    [%d] %s\n", i, formatOptionForDump(opt)))
		}
		sb.WriteString("\n")
	}
	if len(named) > 0 {
		sb.WriteString(GreenBoldS("  Named Options:") + "\n")
		for _, opt := range named {
			sb.WriteString(fmt.Sprintf("    %s\n", formatOptionForDump(opt)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Registry) generateEnvironmentSection() string {
	var sb strings.Builder
	sb.WriteString(GreenBoldS("Environment:") + "\n")
	if v := os.Getenv("NARGS_COLOR"); v != "" {
		sb.WriteString(fmt.Sprintf("  NARGS_COLOR: %s\n", BoldS(v)))
	} else {
		sb.WriteString(fmt.Sprintf("  NARGS_COLOR: %s\n", CyanS("not set")))
	}
	return sb.String()
}

func formatOptionForDump(opt *Option) string {
	var parts []string

	name := BoldS(opt.Name())
	if len(opt.names) > 1 {
		name += " (" + strings.Join(opt.names[1:], ", ") + ")"
	}
	parts = append(parts, name)
	parts = append(parts, fmt.Sprintf("format:%s", CyanS(opt.format())))
	parts = append(parts, fmt.Sprintf("arity:%s", CyanS(opt.arity.String())))

	if opt.Required() {
		parts = append(parts, CyanS("required"))
	} else if opt.defaultText != "" {
		parts = append(parts, fmt.Sprintf("%s %s", CyanS("optional"), CyanS("(default:%s)", opt.defaultText)))
	} else {
		parts = append(parts, CyanS("optional"))
	}
	if opt.Unique() {
		parts = append(parts, "unique")
	}
	parts = append(parts, fmt.Sprintf("storage:%s", opt.Ownership()))
	if opt.usage != "" {
		parts = append(parts, fmt.Sprintf("usage:%q", opt.usage))
	}
	return strings.Join(parts, " ")
}
