package generator

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
	mparser "github.com/pthm/hxmarkup/lib/parser"
)

// Options configures the generator.
type Options struct {
	DryRun bool
	// Extension of template files, without the dot. Defaults to "html".
	Extension string
	// Parser validates templates. Defaults to a parser with default options.
	Parser *mparser.Parser
	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Generator checks templates that live next to Go code and writes a
// *_hx.go file per template declaring its component ids as constants.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Extension == "" {
		opts.Extension = "html"
	}
	opts.Extension = strings.TrimPrefix(opts.Extension, ".")
	if opts.Parser == nil {
		opts.Parser = mparser.New(mparser.Options{})
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// Check parses every template under the patterns and returns the first
// parse error. Nothing is written.
func (g *Generator) Check(patterns ...string) (int, error) {
	dirs, err := g.findDirs(patterns)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, dir := range dirs {
		templates, err := g.templates(dir)
		if err != nil {
			return n, err
		}
		for _, path := range templates {
			if _, err := g.parse(path); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// findPackages resolves package patterns to directories holding Go files.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	return g.walk(patterns, func(name string) bool {
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	})
}

// findDirs resolves patterns to directories holding templates.
func (g *Generator) findDirs(patterns []string) ([]string, error) {
	return g.walk(patterns, g.isTemplate)
}

func (g *Generator) walk(patterns []string, match func(name string) bool) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			dirs = append(dirs, pattern)
			continue
		}
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip hidden directories, vendor and testdata
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && match(entry.Name()) {
					dirs = append(dirs, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

func (g *Generator) isTemplate(name string) bool {
	return strings.HasSuffix(name, "."+g.opts.Extension)
}

func (g *Generator) templates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() && g.isTemplate(entry.Name()) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

func (g *Generator) parse(path string) (*markup.Markup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return g.opts.Parser.Parse(path, f)
}

// generatePackage generates code for a single package.
func (g *Generator) generatePackage(dir string) error {
	templates, err := g.templates(dir)
	if err != nil || len(templates) == 0 {
		return err
	}
	pkgName, err := g.packageName(dir)
	if err != nil {
		return err
	}
	for _, path := range templates {
		m, err := g.parse(path)
		if err != nil {
			return err
		}
		info := templateInfo(path, g.opts.Extension, m)
		if err := g.generateTemplate(dir, pkgName, info); err != nil {
			return err
		}
	}
	return nil
}

// packageName reads the package clause of the first Go file in dir.
func (g *Generator) packageName(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_hx.go") {
			continue
		}
		file, err := parser.ParseFile(g.fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			return "", err
		}
		return file.Name.Name, nil
	}
	return "", fmt.Errorf("no Go files in %s", dir)
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_hx.go") {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// TemplateInfo holds what the generator learned about one template.
type TemplateInfo struct {
	SourceFile string
	Name       string    // template name without extension, e.g. "Home"
	TypeName   string    // Go identifier prefix, e.g. "Home"
	IDs        []IDConst // explicit component ids in document order
}

// IDConst is one generated constant.
type IDConst struct {
	Const string // e.g. "HomeIDFormName"
	Path  string // e.g. "form:name"
	ID    string // e.g. "name"
}

func templateInfo(path, ext string, m *markup.Markup) *TemplateInfo {
	name := strings.TrimSuffix(filepath.Base(path), "."+ext)
	info := &TemplateInfo{
		SourceFile: path,
		Name:       name,
		TypeName:   identifier(name),
	}
	seen := map[string]bool{}
	var stack []*markup.ComponentTag
	for _, el := range m.Elements() {
		tag, ok := el.(*markup.ComponentTag)
		if !ok {
			continue
		}
		if tag.IsClose() {
			for i := len(stack) - 1; i >= 0; i-- {
				if tag.Closes(stack[i]) {
					stack = stack[:i]
					break
				}
			}
			continue
		}
		if !strings.HasPrefix(tag.ID, markup.AutoIDPrefix) {
			p := componentPath(stack, tag.ID)
			c := info.TypeName + "ID" + identifier(p)
			if !seen[c] {
				seen[c] = true
				info.IDs = append(info.IDs, IDConst{Const: c, Path: p, ID: tag.ID})
			}
		}
		if tag.IsOpen() && !tag.NoCloseTag {
			stack = append(stack, tag)
		}
	}
	return info
}

func componentPath(stack []*markup.ComponentTag, id string) string {
	var parts []string
	for _, t := range stack {
		if !strings.HasPrefix(t.ID, markup.AutoIDPrefix) {
			parts = append(parts, t.ID)
		}
	}
	return strings.Join(append(parts, id), ":")
}
