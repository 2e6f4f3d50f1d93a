package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/sidebyside/internal/pager"
	"github.com/codalotl/sidebyside/internal/sidebyside"
	"github.com/codalotl/sidebyside/internal/simplelogger"
)

const sampleDiff = `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,3 +1,3 @@ func f() error {
 	x := 1
-	return nil
+	return err
 }
`

func run(t *testing.T, stdin string, args ...string) (int, string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	code, err := Run(append([]string{"sidebyside"}, args...), &RunOptions{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})
	return code, out.String(), errOut.String(), err
}

func TestRun_RenderTerm(t *testing.T) {
	code, out, _, err := run(t, sampleDiff, "render", "--width", "80", "--color=false")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5) // name, header, three rows
	assert.Equal(t, "a.go", lines[0])
	assert.Contains(t, lines[1], "@@ -1,3 +1,3 @@")
	assert.Contains(t, lines[3], "return nil")
	assert.Contains(t, lines[3], "return err")
	assert.Contains(t, lines[3], " │ ")
}

func TestRun_RenderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.diff")
	require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0o644))

	code, out, _, err := run(t, "", "render", path, "-w", "60", "--color=false")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "return err")
}

func TestRun_RenderHTML(t *testing.T) {
	code, out, _, err := run(t, sampleDiff, "render", "--format", "html")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>stdin</title>")
	assert.Contains(t, out, "sbs-del sbs-change")
	assert.Contains(t, out, "<del>nil</del>")
	assert.Contains(t, out, "<ins>err</ins>")
}

func TestRun_Compare(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("old.txt", []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, os.WriteFile("new.txt", []byte("a\nB\nc\n"), 0o644))

	code, out, _, err := run(t, "", "compare", "--unified", "old.txt", "new.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "--- a/old.txt\n+++ b/new.txt\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n", out)

	code, out, _, err = run(t, "", "compare", "--color=false", "-w", "50", "old.txt", "new.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "new.txt", lines[0])
	assert.Contains(t, lines[3], "b")
	assert.Contains(t, lines[3], "B")
}

func TestRun_CompareIdentical(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("x.txt", []byte("same\n"), 0o644))

	code, out, _, err := run(t, "", "compare", "--color=false", "-w", "60", "x.txt", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "File without changes")

	code, out, _, err = run(t, "", "compare", "--unified", "x.txt", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestRun_CompareNoNewlineAtEndOfFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("o.txt", []byte("a\nb"), 0o644))
	require.NoError(t, os.WriteFile("n.txt", []byte("a\nb\n"), 0o644))

	code, out, _, err := run(t, "", "compare", "-u", "o.txt", "n.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "--- a/o.txt\n+++ b/n.txt\n@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+b\n", out)

	code, out, _, err = run(t, out, "render", "--color=false", "-w", "60")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `-b \ no newline`)
}

func TestRun_CompareCRLF(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("o.txt", []byte("a\r\nb\r\n"), 0o644))
	require.NoError(t, os.WriteFile("n.txt", []byte("a\r\nc\r\n"), 0o644))

	code, out, _, err := run(t, "", "compare", "--color=false", "-w", "60", "o.txt", "n.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "\r")
	assert.Contains(t, out, "-b")
	assert.Contains(t, out, "+c")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"bogus"}},
		{"unknown flag", []string{"render", "--nope"}},
		{"too many args", []string{"render", "a", "b"}},
		{"compare needs two", []string{"compare", "only"}},
		{"bad matching", []string{"render", "--matching", "bogus"}},
		{"bad diff style", []string{"render", "--diff-style", "line"}},
		{"bad format", []string{"render", "--format", "pdf"}},
		{"negative context", []string{"render", "--context", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut, err := run(t, sampleDiff, tt.args...)
			assert.Equal(t, 2, code)
			require.Error(t, err)
			assert.Contains(t, errOut, "error:")
			assert.Contains(t, err.Error(), "error:")
		})
	}
}

func TestRun_RuntimeErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.diff")
	code, _, errOut, err := run(t, "", "render", missing)
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, errOut, "missing.diff")

	code, _, _, err = run(t, "@@ -x +y @@\n", "render")
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse stdin")
}

func TestRun_Version(t *testing.T) {
	code, out, _, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, Version)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sidebyside.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("width: 50\ncolor: false\n"), 0o644))

	code, out, _, err := run(t, sampleDiff, "render", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n")[1:] {
		assert.Len(t, []rune(line), 49) // two 23-column halves and the separator
	}

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("widht: 50\n"), 0o644))
	code, _, _, err = run(t, sampleDiff, "render", "--config", bad)
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestRun_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	t.Cleanup(func() { simplelogger.SetPath("") })
	code, _, _, err := run(t, sampleDiff, "render", "--color=false", "--log-file", logPath)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "cli: render: matching=lines")
}

func TestRun_View(t *testing.T) {
	orig := runPager
	t.Cleanup(func() { runPager = orig })

	var got pager.Model
	runPager = func(m pager.Model) error {
		got = m
		return nil
	}

	code, _, _, err := run(t, sampleDiff, "view", "--color=false")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	updated, _ := got.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := updated.View()
	assert.Contains(t, view, "stdin")
	assert.Contains(t, view, "a.go")
	assert.Contains(t, view, "return err")

	runPager = func(pager.Model) error { return errors.New("no tty") }
	code, _, _, err = run(t, sampleDiff, "view")
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
}

func TestPrintDiagnostics(t *testing.T) {
	defects := []sidebyside.Defect{{Kind: sidebyside.InconsistentLineNumbers, Block: 1, Detail: "old line 3 has no number"}}

	var errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&errOut)

	a := &app{}
	a.printDiagnostics(cmd, "a.go", defects)
	assert.Empty(t, errOut.String())

	a.flags.diagnostics = true
	a.printDiagnostics(cmd, "a.go", defects)
	assert.Equal(t, "warning: a.go: InconsistentLineNumbers: block 1: old line 3 has no number\n", errOut.String())
}

func TestRun_RenderMarkdown(t *testing.T) {
	doc := "# Notes\n\nThe fix:\n\n```diff\n" + sampleDiff + "```\n"
	code, out, _, err := run(t, doc, "render", "--markdown", "--color=false", "-w", "80")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "return err")
	assert.NotContains(t, out, "The fix")

	code, _, _, err = run(t, "```diff\n-a\n", "render", "--markdown")
	assert.Equal(t, 1, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}
