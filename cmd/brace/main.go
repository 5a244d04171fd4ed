package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
	"github.com/funvibe/brace/pkg/brace"
)

const usage = `Usage: %s <command> [options] <file%s>

Commands:
  run     analyze and run a tree
  check   analyze a tree without running it
  dump    analyze a tree and print its arena

Options:
  -config <path>    read configuration from path (default: brace.yaml next to the file)
  -inspect <pkg>    check member access against Go source of pkg (repeatable)
`

type options struct {
	command    string
	file       string
	configPath string
	inspect    []string
}

func parseArgs(args []string) (*options, error) {
	if len(args) < 1 {
		return nil, errors.New("missing command")
	}
	opts := &options{command: args[0]}
	switch opts.command {
	case "run", "check", "dump":
	default:
		return nil, fmt.Errorf("unknown command %q", opts.command)
	}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch arg {
		case "-config", "--config", "-inspect", "--inspect":
			if i+1 >= len(rest) {
				return nil, fmt.Errorf("%s needs a value", arg)
			}
			i++
			if strings.HasSuffix(arg, "config") {
				opts.configPath = rest[i]
			} else {
				opts.inspect = append(opts.inspect, rest[i])
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option %s", arg)
			}
			if opts.file != "" {
				return nil, fmt.Errorf("unexpected argument %s", arg)
			}
			opts.file = arg
		}
	}
	return opts, nil
}

// loadConfig reads the explicit config, or brace.yaml beside the file.
func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		dir := "."
		if opts.file != "" {
			dir = filepath.Dir(opts.file)
		}
		path = config.FindConfig(dir)
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(opts *options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.file == "" {
		opts.file = cfg.EntryPath()
	}
	if opts.file == "" {
		return errors.New("no tree file given and no entry configured")
	}

	vm, err := brace.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	vm.SetOutput(stdout)
	if len(opts.inspect) > 0 {
		if err := vm.UseInspector(filepath.Dir(opts.file), opts.inspect...); err != nil {
			return err
		}
	}

	switch opts.command {
	case "check":
		return vm.Check(opts.file, nil)
	case "dump":
		return vm.Check(opts.file, stdout)
	default:
		_, err := vm.LoadFile(opts.file)
		return err
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]), config.TreeFileExt)
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err, highlighting the diagnostic code when stderr is a
// terminal.
func reportError(w *os.File, err error) {
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		fmt.Fprintf(w, "Error: %s\n", err)
		return
	}
	if useColor(w) {
		fmt.Fprintf(w, "\x1b[1;31m%s\x1b[0m (%s)\n", diag.Error(), diag.Code.Title())
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", diag.Error(), diag.Code.Title())
}

func useColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
