package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm/hxmarkup/lib/markup"
	mparser "github.com/pthm/hxmarkup/lib/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Home", "Home"},
		{"user-list", "UserList"},
		{"form:name", "FormName"},
		{"row_item.x", "RowItemX"},
		{"404", "X404"},
		{"", "X"},
	}
	for _, tt := range tests {
		if got := identifier(tt.in); got != tt.want {
			t.Errorf("identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateInfo(t *testing.T) {
	src := `<wicket:panel>
<form wicket:id="form"><input wicket:id="name"/></form>
<span wicket:id="name">x</span>
<wicket:enclosure><b wicket:id="extra">y</b></wicket:enclosure>
</wicket:panel>`
	m, err := mparser.New(mparser.Options{}).ParseString("UserPanel.html", src)
	if err != nil {
		t.Fatal(err)
	}

	info := templateInfo("pkg/UserPanel.html", "html", m)
	if info.Name != "UserPanel" || info.TypeName != "UserPanel" {
		t.Errorf("info = %+v", info)
	}

	want := []IDConst{
		{Const: "UserPanelIDForm", Path: "form", ID: "form"},
		{Const: "UserPanelIDFormName", Path: "form:name", ID: "name"},
		{Const: "UserPanelIDName", Path: "name", ID: "name"},
		{Const: "UserPanelIDExtra", Path: "extra", ID: "extra"},
	}
	if len(info.IDs) != len(want) {
		t.Fatalf("got %d ids: %+v", len(info.IDs), info.IDs)
	}
	for i := range want {
		if info.IDs[i] != want[i] {
			t.Errorf("IDs[%d] = %+v, want %+v", i, info.IDs[i], want[i])
		}
	}
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pages", "doc.go"), "package pages\n")
	writeFile(t, filepath.Join(dir, "pages", "Home.html"), `<h1 wicket:id="title">t</h1>`)
	writeFile(t, filepath.Join(dir, "pages", "testdata", "Skip.html"), `<wicket:bogus/>`)

	var out bytes.Buffer
	g := New(Options{Out: &out})
	if err := g.Generate(dir + "/..."); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	generated := filepath.Join(dir, "pages", "home_hx.go")
	code, err := os.ReadFile(generated)
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	for _, want := range []string{
		"// Code generated by hxmarkup. DO NOT EDIT.",
		"package pages",
		`HomeTemplate = "Home"`,
		`HomeIDTitle = "title" // title`,
	} {
		if !strings.Contains(string(code), want) {
			t.Errorf("generated code missing %q:\n%s", want, code)
		}
	}
	if !strings.Contains(out.String(), "generating") {
		t.Errorf("progress output = %q", out.String())
	}

	if err := g.Clean(dir + "/..."); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(generated); !os.IsNotExist(err) {
		t.Errorf("generated file still exists after Clean")
	}
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.go"), "package site\n")
	writeFile(t, filepath.Join(dir, "Page.html"), `<p wicket:id="x">x</p>`)

	g := New(Options{DryRun: true, Out: &bytes.Buffer{}})
	if err := g.Generate(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page_hx.go")); !os.IsNotExist(err) {
		t.Error("dry run must not write files")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok", "A.html"), `<p wicket:id="a">x</p>`)
	writeFile(t, filepath.Join(dir, "ok", "B.html"), `plain`)

	g := New(Options{Out: &bytes.Buffer{}})
	n, err := g.Check(dir + "/...")
	if err != nil || n != 2 {
		t.Fatalf("Check() = %d, %v", n, err)
	}

	writeFile(t, filepath.Join(dir, "bad", "C.html"), `<wicket:remove>`)
	_, err = g.Check(dir + "/...")
	if !markup.IsParseError(err) {
		t.Fatalf("Check() error = %v, want a parse error", err)
	}
	if !strings.Contains(err.Error(), "C.html") {
		t.Errorf("error should name the template: %v", err)
	}
}
