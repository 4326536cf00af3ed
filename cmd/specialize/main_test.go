package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const program = `
// @capability number Monoid
const Sum = { concat: (x, y) => x + y, empty: 0 };

const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((acc, x) => M.concat(acc, x), M.empty);

console.log(specialize(fold, Sum)([1, 2, 3]));
console.log(specialize(fold, Unknown)([1, 2, 3]));
`

const capabilities = `
tables:
  - name: Unknown
    brand: number
    contract: Monoid
    methods:
      concat: "(x, y) => x * y"
      empty: "1"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExpandCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.ts", program)
	caps := writeFile(t, dir, "caps.yaml", capabilities)

	out, _, err := execute(t, "expand", "--capabilities", caps, src)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"const __specialized_fold_",
		"xs.reduce((acc, x) => acc + x, 0)",
		"xs.reduce((acc, x) => acc * x, 1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expanded program lacks %q:\n%s", want, out)
		}
	}

	out, stderr, err := execute(t, "expand", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "warning[S001]") {
		t.Errorf("stderr = %q, want an S001 warning", stderr)
	}
	if !strings.Contains(out, "(...args) => fold(Unknown, ...args)") {
		t.Errorf("missing fallback wrapper:\n%s", out)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.ts", program)
	caps := writeFile(t, dir, "caps.yaml", capabilities)

	for _, args := range [][]string{
		{"run", "--capabilities", caps, src},
		{"run", "--original", "--capabilities", caps, src},
		{"run", "--no-hoist", "--max-depth", "2", "--capabilities", caps, src},
	} {
		out, stderr, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", args, err, stderr)
		}
		if out != "6\n6\n" {
			t.Errorf("%v: output = %q, want %q", args, out, "6\n6\n")
		}
	}
}

func TestConfigDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "specialize.yaml", "hoist: false\n")
	src := writeFile(t, dir, "main.ts", program)
	caps := writeFile(t, dir, "caps.yaml", capabilities)

	out, _, err := execute(t, "expand", "--capabilities", caps, src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "__specialized_") {
		t.Errorf("hoist: false in the nearest config was ignored:\n%s", out)
	}

	dir = t.TempDir()
	writeFile(t, dir, "specialize.yaml", "capabilities: [caps.yaml]\n")
	writeFile(t, dir, "caps.yaml", capabilities)
	src = writeFile(t, dir, "main.ts", program)
	out, stderr, err := execute(t, "expand", src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "S001") || !strings.Contains(out, "acc * x, 1") {
		t.Errorf("capabilities listed in the config were not loaded:\n%s\n%s", stderr, out)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.ts", program)
	bad := writeFile(t, dir, "bad.ts", "const x = ;\n")

	if _, _, err := execute(t, "expand", filepath.Join(dir, "main.py")); err == nil || !strings.Contains(err.Error(), "unrecognized source file extension") {
		t.Errorf("wrong extension: err = %v", err)
	}
	if _, _, err := execute(t, "expand", "--max-depth", "-1", src); err == nil || !strings.Contains(err.Error(), "max-depth") {
		t.Errorf("negative depth: err = %v", err)
	}
	if _, _, err := execute(t, "expand", "--capabilities", filepath.Join(dir, "missing.yaml"), src); err == nil {
		t.Error("missing capabilities file accepted")
	}
	_, stderr, err := execute(t, "expand", bad)
	if !errors.Is(err, errFailed) {
		t.Errorf("parse error: err = %v", err)
	}
	if !strings.Contains(stderr, "error[P") {
		t.Errorf("parse error not printed: %q", stderr)
	}
	if _, _, err := execute(t, "run"); err == nil {
		t.Error("run without a file accepted")
	}
}
