package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyproto/adder/internal/engine"
)

func testConfig() *Config {
	return &Config{
		Syntax:   "nasm",
		Color:    "never",
		MaxDepth: engine.DefaultMaxDepth,
		Entry:    engine.DefaultEntry,
	}
}

// runCLI executes the command tree the way main does, with captured output
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	ctx := &CommandContext{
		Config: testConfig(),
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	cmd := NewRootCommand(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	if err != nil {
		reportError(ctx, err)
	}
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

const negateAdd1Asm = `section .text
global our_code_starts_here
our_code_starts_here:
  mov rax, 5
  add rax, 1
  neg rax
  ret
`

func TestClassicInvocation(t *testing.T) {
	dir := t.TempDir()
	in := writeSource(t, dir, "test.snek", "(negate (add1 5))\n")
	out := filepath.Join(dir, "test.s")

	_, _, err := runCLI(t, "", in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, negateAdd1Asm, string(data))
}

func TestBuildDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeSource(t, dir, "prog.snek", "(sub1 (sub1 10))")

	_, _, err := runCLI(t, "", "build", in)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "prog.s"))
	require.NoError(t, err)
	value, err := engine.ExecuteAssembly(string(data))
	require.NoError(t, err)
	assert.Equal(t, int64(8), value)
}

func TestBuildToStdout(t *testing.T) {
	stdout, _, err := runCLI(t, "(negate (add1 5))", "build", "-", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, negateAdd1Asm, stdout)
}

func TestBuildGASSyntax(t *testing.T) {
	stdout, _, err := runCLI(t, "(add1 5)", "--syntax", "gas", "build", "-", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".globl our_code_starts_here\n")
	assert.Contains(t, stdout, "  movq $5, %rax\n  addq $1, %rax\n  ret\n")
}

func TestBuildSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	sources := map[string]string{
		"a.snek": "5",
		"b.snek": "(add1 (negate 3))",
		"c.snek": "(negate (add1 5))",
	}
	var inputs []string
	for name, src := range sources {
		inputs = append(inputs, writeSource(t, dir, name, src))
	}

	_, _, err := runCLI(t, "", append([]string{"build"}, inputs...)...)
	require.NoError(t, err)

	expected := map[string]int64{"a.s": 5, "b.s": -2, "c.s": -6}
	for name, want := range expected {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		got, err := engine.ExecuteAssembly(string(data))
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestBuildSeveralFilesRejectsOutputFlag(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.snek", "1")
	b := writeSource(t, dir, "b.snek", "2")

	_, _, err := runCLI(t, "", "build", a, b, "-o", filepath.Join(dir, "out.s"))
	assert.Error(t, err)
}

func TestBuildReportsParseFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeSource(t, dir, "bad.snek", "(mul 1 2)")
	out := filepath.Join(dir, "bad.s")

	_, stderr, err := runCLI(t, "", in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrMalformed))
	assert.Contains(t, stderr, "error: unknown operator 'mul'")
	assert.Contains(t, stderr, "bad.snek:1:2")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output may be written on failure")
}

func TestBuildMissingInput(t *testing.T) {
	_, stderr, err := runCLI(t, "", "build", filepath.Join(t.TempDir(), "missing.snek"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, stderr, "Error: failed to read")
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"eval", "-e", "5"}, "5\n"},
		{[]string{"eval", "-e", "(add1 5)"}, "6\n"},
		{[]string{"eval", "-e", "(negate (add1 5))", "--check"}, "-6\n"},
		{[]string{"eval", "--check", "-e", "(sub1 (sub1 10))"}, "8\n"},
		{[]string{"eval", "-e", "(add1 (negate 3))"}, "-2\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, _, err := runCLI(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestEvalFile(t *testing.T) {
	in := writeSource(t, t.TempDir(), "v.snek", "; a comment\n(negate 41)\n")
	stdout, _, err := runCLI(t, "", "eval", in)
	require.NoError(t, err)
	assert.Equal(t, "-41\n", stdout)
}

func TestEvalUsage(t *testing.T) {
	_, _, err := runCLI(t, "", "eval")
	assert.Error(t, err)
}

func TestInvalidSyntaxFlag(t *testing.T) {
	_, _, err := runCLI(t, "5", "--syntax", "masm", "build", "-", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported syntax")
}

func TestInvalidEntryFlag(t *testing.T) {
	stdout, _, err := runCLI(t, "5", "--entry", "a b", "build", "-", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry label")
	assert.Empty(t, stdout)

	stdout, _, err = runCLI(t, "5", "--entry", "start", "build", "-", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "global start\nstart:\n")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, versionString+"\n", stdout)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "prog.s", defaultOutputPath("prog.snek"))
	assert.Equal(t, filepath.Join("dir", "x.s"), defaultOutputPath(filepath.Join("dir", "x")))
	assert.Equal(t, "-", defaultOutputPath("-"))
}
