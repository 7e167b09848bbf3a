package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI in a scratch directory so no stray minicc.toml is
// picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("MINICC_CONFIG", "")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.c")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodProgram = "#include <stdio.h>\nint main() { int x = 5; return x; }\n"

func TestCheckCommand(t *testing.T) {
	path := writeSource(t, goodProgram)
	out, _, err := run(t, "", "check", path)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	for _, want := range []string{"PARSING SUCCESSFUL", `Declarator {name: "x"}`, "No errors found."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommandStdin(t *testing.T) {
	out, _, err := run(t, "int main() { int i; for (i = 0; i < 10; i++) { } return 0; }", "check", "--ast=false")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "For {}") {
		t.Errorf("AST printed with --ast=false:\n%s", out)
	}
}

func TestCheckCommandRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Lexical", "int main() { x = 1 @ 2; }", "Lexical error: '@' at line 1"},
		{"Syntax", "int main() { return 0 }", "Syntax error at '}' (line 1)"},
		{"Semantic", "int main() { if (1) { int y = 2; } return y; }", "Undeclared identifier 'y'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.src, "check", "-")
			if !errors.Is(err, ErrCheckFailed) {
				t.Fatalf("err = %v, want ErrCheckFailed", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCheckCommandJSON(t *testing.T) {
	out, _, err := run(t, `int main() { printf("%d", 5, 6); return 0; }`, "check", "--format", "json")
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("err = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc["ok"] != false || doc["stage"] != "semantic" || doc["file"] != "<stdin>" {
		t.Errorf("doc = %v", doc)
	}
}

func TestCheckCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "minicc.yaml")
	if err := os.WriteFile(cfg, []byte("output:\n  format: json\n  dump_ast: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, goodProgram, "--config", cfg, "check")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") || strings.Contains(out, `"ast"`) {
		t.Errorf("config not applied:\n%s", out)
	}
}

func TestCheckCommandVerbose(t *testing.T) {
	_, stderr, err := run(t, goodProgram, "check", "-v")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "parsed") || !strings.Contains(stderr, "analyzed") {
		t.Errorf("stage logs missing:\n%s", stderr)
	}
}

func TestCheckCommandBadFormat(t *testing.T) {
	_, _, err := run(t, goodProgram, "check", "--format", "xml")
	if err == nil || errors.Is(err, ErrCheckFailed) {
		t.Errorf("err = %v, want usage error", err)
	}
}

func TestParseCommand(t *testing.T) {
	out, _, err := run(t, goodProgram, "parse")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Program {}\n  Header {name: \"stdio.h\"}\n") || strings.Contains(out, "SEMANTIC") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, _, err = run(t, "int main() { x = ---1; }", "parse", "--max-depth", "2")
	if !errors.Is(err, ErrCheckFailed) || !strings.Contains(out, "nesting deeper than 2 levels") {
		t.Errorf("depth limit not applied: %v\n%s", err, out)
	}
}

func TestTokensCommand(t *testing.T) {
	out, _, err := run(t, "int x;", "tokens")
	if err != nil {
		t.Fatal(err)
	}
	want := "Type: INT, Value: int, Line: 1, Position: 0\n" +
		"Type: ID, Value: x, Line: 1, Position: 4\n" +
		"Type: SEMICOLON, Value: ;, Line: 1, Position: 5\n" +
		"Type: EOF, Value: , Line: 1, Position: 6\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}

	out, _, err = run(t, "int $;", "tokens")
	if !errors.Is(err, ErrCheckFailed) || !strings.HasSuffix(out, "Lexical error: '$' at line 1\n") {
		t.Errorf("err = %v, out = %q", err, out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "--config", "/does/not/exist.toml", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "minicc v"+Version) {
		t.Errorf("got %q", out)
	}
}

func TestMissingConfig(t *testing.T) {
	_, _, err := run(t, goodProgram, "--config", "/does/not/exist.toml", "check")
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("err = %v", err)
	}
}
