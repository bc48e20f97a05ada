package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/wippyai/narkit/errors"
	"github.com/wippyai/narkit/nar"
)

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: narinfo -nar <file.nar|-> [-list | -sexpr | -cat path] [-strict] [-canonical]")
		fmt.Fprintln(os.Stderr, "       narinfo -nar <file.nar> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       narinfo -config narinfo.ini -nar <file.nar>")
		os.Exit(1)
	}

	if err := run(context.Background(), inv, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, inv *invocation, stdin io.Reader, stdout io.Writer) error {
	log, err := newLogger(inv.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()
	nar.SetLogger(log)

	a, err := load(ctx, inv, stdin)
	if err != nil {
		return err
	}
	log.Debug("archive loaded",
		zap.String("file", inv.narFile),
		zap.Int("size", a.Size()),
		zap.Stringer("root", a.Root.Type()))

	if inv.interactive {
		return runInteractive(displayName(inv.narFile), a)
	}

	if inv.catPath != "" {
		return printFile(stdout, a, inv.catPath)
	}

	switch inv.Format {
	case "list":
		return printList(stdout, a)
	case "sexpr":
		return printSexpr(stdout, a)
	default:
		color := colorEnabled(inv.Color, stdout)
		if color && inv.Color == "always" {
			lipgloss.SetColorProfile(termenv.ANSI256)
		}
		return printTree(stdout, a, displayName(inv.narFile), color)
	}
}

func load(ctx context.Context, inv *invocation, stdin io.Reader) (*nar.Archive, error) {
	opts := inv.options()
	if inv.narFile == "-" {
		return nar.DecodeReader(ctx, stdin, opts...)
	}

	data, err := os.ReadFile(inv.narFile)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read file")
	}
	a, err := nar.DecodeArchive(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", inv.narFile, err)
	}
	return a, nil
}

func displayName(narFile string) string {
	if narFile == "-" {
		return "<stdin>"
	}
	return filepath.Base(narFile)
}
