package main

import (
	"flag"
	"fmt"
	"slices"

	"gopkg.in/ini.v1"

	"github.com/wippyai/narkit/errors"
	"github.com/wippyai/narkit/nar"
)

var (
	colorModes  = []string{"auto", "always", "never"}
	formatModes = []string{"tree", "sexpr", "list"}
)

// settings are the knobs that may come from a config file or from flags.
type settings struct {
	Color         string
	Format        string
	MaxDepth      int
	Strict        bool
	Canonical     bool
	RequireTarget bool
}

func defaultSettings() settings {
	return settings{Color: "auto", Format: "tree"}
}

// loadConfig overlays values from an INI source (a path or raw bytes) on s.
//
//	[decode]
//	strict = true
//	canonical = true
//	require_target = false
//	max_depth = 64
//
//	[output]
//	color = auto
//	format = tree
func loadConfig(source any, s *settings) error {
	cfg, err := ini.Load(source)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load config")
	}

	dec := cfg.Section("decode")
	for key, dst := range map[string]*bool{
		"strict":         &s.Strict,
		"canonical":      &s.Canonical,
		"require_target": &s.RequireTarget,
	} {
		if !dec.HasKey(key) {
			continue
		}
		v, err := dec.Key(key).Bool()
		if err != nil {
			return configError("decode", key, err)
		}
		*dst = v
	}
	if dec.HasKey("max_depth") {
		v, err := dec.Key("max_depth").Int()
		if err != nil {
			return configError("decode", "max_depth", err)
		}
		s.MaxDepth = v
	}

	out := cfg.Section("output")
	if out.HasKey("color") {
		s.Color = out.Key("color").String()
	}
	if out.HasKey("format") {
		s.Format = out.Key("format").String()
	}
	return s.validate()
}

func configError(section, key string, cause error) error {
	return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, cause,
		fmt.Sprintf("%s.%s", section, key))
}

func (s settings) validate() error {
	if !slices.Contains(colorModes, s.Color) {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("color %q: want one of %v", s.Color, colorModes))
	}
	if !slices.Contains(formatModes, s.Format) {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("format %q: want one of %v", s.Format, formatModes))
	}
	if s.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("max depth %d is negative", s.MaxDepth))
	}
	return nil
}

func (s settings) options() []nar.Option {
	var opts []nar.Option
	if s.Strict {
		opts = append(opts, nar.WithStrictEnd())
	}
	if s.Canonical {
		opts = append(opts, nar.WithCanonicalOrder())
	}
	if s.RequireTarget {
		opts = append(opts, nar.WithRequireTargetTag())
	}
	if s.MaxDepth > 0 {
		opts = append(opts, nar.WithMaxDepth(s.MaxDepth))
	}
	return opts
}

// invocation is one parsed command line.
type invocation struct {
	settings
	narFile     string
	catPath     string
	verbose     bool
	interactive bool
}

func parseArgs(args []string) (*invocation, error) {
	fl := flag.NewFlagSet("narinfo", flag.ContinueOnError)
	var (
		narFile       = fl.String("nar", "", "Path to .nar file, or - for stdin")
		configFile    = fl.String("config", "", "INI file with [decode] and [output] defaults")
		catPath       = fl.String("cat", "", "Print the contents of a regular file inside the archive")
		tree          = fl.Bool("tree", false, "Print an indented tree (the default view)")
		list          = fl.Bool("list", false, "List every path with mode and size")
		sexpr         = fl.Bool("sexpr", false, "Print the tree as an s-expression")
		color         = fl.String("color", "", "Colorize output: auto, always or never")
		strict        = fl.Bool("strict", false, "Reject bytes after the archive")
		canonical     = fl.Bool("canonical", false, "Reject unsorted or invalid directory entries")
		requireTarget = fl.Bool("require-target", false, "Reject symlinks without the target keyword")
		maxDepth      = fl.Int("max-depth", 0, "Maximum directory nesting (0 = unlimited)")
		verbose       = fl.Bool("v", false, "Debug logging to stderr")
		interactive   = fl.Bool("i", false, "Interactive mode with TUI")
	)
	if err := fl.Parse(args); err != nil {
		return nil, err
	}

	inv := &invocation{
		settings:    defaultSettings(),
		narFile:     *narFile,
		catPath:     *catPath,
		verbose:     *verbose,
		interactive: *interactive,
	}
	if inv.narFile == "" && fl.NArg() > 0 {
		inv.narFile = fl.Arg(0)
	}
	if inv.narFile == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "no archive given")
	}

	if *configFile != "" {
		if err := loadConfig(*configFile, &inv.settings); err != nil {
			return nil, err
		}
	}

	// Flags given explicitly win over the config file.
	fl.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tree":
			if *tree {
				inv.Format = "tree"
			}
		case "list":
			if *list {
				inv.Format = "list"
			}
		case "sexpr":
			if *sexpr {
				inv.Format = "sexpr"
			}
		case "color":
			inv.Color = *color
		case "strict":
			inv.Strict = *strict
		case "canonical":
			inv.Canonical = *canonical
		case "require-target":
			inv.RequireTarget = *requireTarget
		case "max-depth":
			inv.MaxDepth = *maxDepth
		}
	})

	if err := inv.validate(); err != nil {
		return nil, err
	}
	return inv, nil
}
