package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/pthm/hxmarkup"
	"github.com/pthm/hxmarkup/lib/encoding"
	"github.com/pthm/hxmarkup/lib/generator"
	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/parser"
)

const version = "0.1.0"

// keyEnv names the environment variable holding the bundle key.
const keyEnv = "HXMARKUP_BUNDLE_KEY"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cmd := args[0]
	args = args[1:]

	var err error
	switch cmd {
	case "check":
		err = runCheck(args, stdout, stderr)
	case "dump":
		err = runDump(args, stdout, stderr)
	case "compile":
		err = runCompile(args, stdout, stderr)
	case "generate":
		err = runGenerate(args, stdout, stderr)
	case "clean":
		err = runClean(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "hxmarkup version %s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		printUsage(stderr)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `hxmarkup - HTML templates bound to Go components

Usage:
  hxmarkup <command> [options] [arguments]

Commands:
  check [packages]      Parse every template and report the first error
  dump <file>           Print the parsed elements of one template
  compile <dir>         Parse all templates under dir into a signed bundle
  generate [packages]   Generate id constants for templates (*_hx.go)
  clean [packages]      Remove generated files (*_hx.go)
  version               Print version
  help                  Show this help

Common options:
  --config <file>       YAML settings (namespace, strip flags, encoding, ...)
  --verbose             Log debug output to stderr

Options for generate and clean:
  --dry-run             Show what would be written without writing files

Options for compile:
  --out <file>          Bundle file (default: templates.hxb)
  --encrypt             Encrypt instead of sign
  The key is read from $HXMARKUP_BUNDLE_KEY.

Examples:
  hxmarkup check ./...                    Validate all templates
  hxmarkup dump pages/Home.html           Show how a template is parsed
  hxmarkup compile --out app.hxb ./web    Precompile templates
  hxmarkup generate ./...                 Generate for all packages
  hxmarkup clean ./...                    Remove all generated files`)
}

// common holds the options every command accepts.
type common struct {
	config  string
	verbose bool
	dryRun  bool
}

func newFlagSet(name string, stderr io.Writer, c *common) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&c.config, "config", "", "YAML settings file")
	flags.BoolVar(&c.verbose, "verbose", false, "log debug output")
	return flags
}

func (c *common) settings() (hxmarkup.Settings, error) {
	if c.config == "" {
		return hxmarkup.DefaultSettings(), nil
	}
	return hxmarkup.LoadSettingsFile(c.config)
}

func (c *common) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (c *common) parser(stderr io.Writer) (*parser.Parser, hxmarkup.Settings, error) {
	s, err := c.settings()
	if err != nil {
		return nil, s, err
	}
	return parser.New(s.ParserOptions(s.TagRegistry(), c.logger(stderr))), s, nil
}

func patternsOrDefault(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	var c common
	flags := newFlagSet("check", stderr, &c)
	if err := flags.Parse(args); err != nil {
		return err
	}
	p, s, err := c.parser(stderr)
	if err != nil {
		return err
	}
	gen := generator.New(generator.Options{Parser: p, Extension: s.Extension, Out: stdout})
	n, err := gen.Check(patternsOrDefault(flags.Args())...)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ok: %d templates\n", n)
	return nil
}

func runDump(args []string, stdout, stderr io.Writer) error {
	var c common
	flags := newFlagSet("dump", stderr, &c)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("dump: exactly one template file is required")
	}
	p, _, err := c.parser(stderr)
	if err != nil {
		return err
	}
	file := flags.Arg(0)
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := p.Parse(file, f)
	if err != nil {
		return err
	}
	return dump(stdout, m)
}

func dump(w io.Writer, m *markup.Markup) error {
	info := m.Info()
	fmt.Fprintf(w, "%s: namespace=%s encoding=%s elements=%d\n", info.Resource, info.Namespace, info.Encoding, m.Len())
	for i, el := range m.Elements() {
		var err error
		switch el := el.(type) {
		case markup.RawText:
			_, err = fmt.Fprintf(w, "%4d %-10s %q\n", i, "raw", string(el))
		case *markup.ComponentTag:
			_, err = fmt.Fprintf(w, "%4d %-10s %s\n", i, el.Kind, el.DebugString())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runCompile(args []string, stdout, stderr io.Writer) error {
	var c common
	flags := newFlagSet("compile", stderr, &c)
	out := flags.String("out", "templates.hxb", "bundle file")
	encrypt := flags.Bool("encrypt", false, "encrypt instead of sign")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("compile: exactly one template directory is required")
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return fmt.Errorf("compile: $%s is not set", keyEnv)
	}
	p, s, err := c.parser(stderr)
	if err != nil {
		return err
	}

	b, err := compile(os.DirFS(flags.Arg(0)), p, s.Extension)
	if err != nil {
		return err
	}
	enc, err := encoding.NewEncoder([]byte(key))
	if err != nil {
		return err
	}
	data, err := enc.EncodeBundle(b, *encrypt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, []byte(data+"\n"), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d templates to %s\n", len(b.Entries), *out)
	return nil
}

// compile parses every template in fsys. Template keys are the slash
// separated paths without extension, which is also what a locale or style
// variant resolves to at runtime ("Home_de.html" is stored as "Home_de").
func compile(fsys fs.FS, p *parser.Parser, ext string) (*encoding.Bundle, error) {
	b := &encoding.Bundle{}
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != "."+ext {
			return nil
		}
		f, err := fsys.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		m, err := p.Parse(name, f)
		if err != nil {
			return err
		}
		b.Add(locator.Key{Name: strings.TrimSuffix(name, "."+ext), Extension: ext}, m)
		return nil
	})
	return b, err
}

func runGenerate(args []string, stdout, stderr io.Writer) error {
	var c common
	flags := newFlagSet("generate", stderr, &c)
	flags.BoolVar(&c.dryRun, "dry-run", false, "show what would be generated")
	if err := flags.Parse(args); err != nil {
		return err
	}
	p, s, err := c.parser(stderr)
	if err != nil {
		return err
	}
	gen := generator.New(generator.Options{
		DryRun:    c.dryRun,
		Extension: s.Extension,
		Parser:    p,
		Out:       stdout,
	})
	return gen.Generate(patternsOrDefault(flags.Args())...)
}

func runClean(args []string, stdout, stderr io.Writer) error {
	var c common
	flags := newFlagSet("clean", stderr, &c)
	flags.BoolVar(&c.dryRun, "dry-run", false, "show what would be removed")
	if err := flags.Parse(args); err != nil {
		return err
	}
	gen := generator.New(generator.Options{DryRun: c.dryRun, Out: stdout})
	return gen.Clean(patternsOrDefault(flags.Args())...)
}
