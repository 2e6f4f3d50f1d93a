package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codalotl/sidebyside/internal/linediff"
	"github.com/codalotl/sidebyside/internal/mdfence"
	"github.com/codalotl/sidebyside/internal/pager"
	"github.com/codalotl/sidebyside/internal/render/htmlrender"
	"github.com/codalotl/sidebyside/internal/render/termrender"
	"github.com/codalotl/sidebyside/internal/sidebyside"
	"github.com/codalotl/sidebyside/internal/simplelogger"
	"github.com/codalotl/sidebyside/internal/unidiff"
)

// fallbackWidth is used when the width is unset and stdout is not a terminal.
const fallbackWidth = 120

// runPager is replaced in tests.
var runPager = func(m pager.Model) error {
	return pager.Run(m)
}

type app struct {
	flags flagValues
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "sidebyside",
		Short:         "Show unified diffs side by side",
		Long:          "sidebyside reads unified diffs (git diff, diff -u) and shows old and new versions in two aligned columns, with changed words highlighted.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	a.flags.register(root.PersistentFlags())

	root.AddCommand(a.renderCommand(), a.compareCommand(), a.viewCommand())
	return root
}

func (a *app) renderCommand() *cobra.Command {
	var format string
	var markdown bool
	cmd := &cobra.Command{
		Use:   "render [FILE|-]",
		Short: "Print a unified diff side by side",
		Long:  "render reads a unified diff from FILE (or stdin when FILE is omitted or -) and prints it side by side as terminal text or an HTML page.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "term" && format != "html" {
				return usageError{fmt.Errorf("unknown format %q (want term or html)", format)}
			}
			s, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			name, files, err := loadDiff(cmd, args, markdown)
			if err != nil {
				return err
			}
			return a.write(cmd, s, format, name, files)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "term", "output format: term or html")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "read a Markdown document and show the diffs in its ```diff and ```patch blocks")
	return cmd
}

func (a *app) compareCommand() *cobra.Command {
	var format string
	var unified bool
	cmd := &cobra.Command{
		Use:   "compare OLD NEW",
		Short: "Diff two files and print them side by side",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "term" && format != "html" {
				return usageError{fmt.Errorf("unknown format %q (want term or html)", format)}
			}
			s, err := a.setup(cmd, false)
			if err != nil {
				return err
			}
			oldText, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			newText, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			d := linediff.DiffText(string(oldText), string(newText))
			f := d.File(filepath.ToSlash(args[0]), filepath.ToSlash(args[1]), s.context)
			if unified {
				// Like diff -u, identical files produce no output.
				if !d.HasChanges() {
					return nil
				}
				_, err := io.WriteString(cmd.OutOrStdout(), unidiff.Format(f))
				return err
			}
			return a.write(cmd, s, format, args[0]+" → "+args[1], []unidiff.File{f})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "term", "output format: term or html")
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "print the unified diff instead of the side-by-side view")
	return cmd
}

func (a *app) viewCommand() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "view [FILE|-]",
		Short: "Page through a unified diff side by side",
		Long:  "view reads a unified diff like render and shows it full-screen, re-laying it out whenever the terminal is resized.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd, true)
			if err != nil {
				return err
			}
			name, files, err := loadDiff(cmd, args, markdown)
			if err != nil {
				return err
			}
			eng, err := sidebyside.New(s.engine, termrender.Styler, nil)
			if err != nil {
				return err
			}

			// Only rendering depends on the width.
			outs := make([]sidebyside.Output, len(files))
			for i, f := range files {
				outs[i] = eng.Align(f, sidebyside.DescriptorAssembler{})
				a.printDiagnostics(cmd, f.Name(), outs[i].Diagnostics)
			}
			render := func(width int) []string {
				r := termrender.New(termrender.Options{Width: width, TabWidth: s.tabWidth, Color: s.color})
				var lines []string
				for i, f := range files {
					if i > 0 {
						lines = append(lines, "")
					}
					lines = append(lines, f.Name())
					lines = append(lines, r.Output(outs[i])...)
				}
				return lines
			}
			return runPager(pager.New(name, render))
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "read a Markdown document and show the diffs in its ```diff and ```patch blocks")
	return cmd
}

// setup resolves settings for cmd and applies the process-wide ones. Color defaults to on for interactive commands and when stdout is a terminal.
func (a *app) setup(cmd *cobra.Command, interactive bool) (settings, error) {
	fd, isTerm := terminalFd(cmd.OutOrStdout())
	s, err := a.flags.resolve(cmd.Flags(), isTerm || interactive)
	if err != nil {
		return settings{}, err
	}
	if s.logFile != "" {
		simplelogger.SetPath(s.logFile)
	}
	if s.width == 0 {
		s.width = fallbackWidth
		if isTerm {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				s.width = w
			}
		}
	}
	simplelogger.Log("cli: %s: matching=%v style=%v width=%d", cmd.Name(), s.engine.Matching, s.engine.DiffStyle, s.width)
	return s, nil
}

func (a *app) write(cmd *cobra.Command, s settings, format, title string, files []unidiff.File) error {
	out := cmd.OutOrStdout()
	switch format {
	case "html":
		eng, err := sidebyside.New(s.engine, htmlrender.Styler, htmlrender.Marker{})
		if err != nil {
			return err
		}
		var pages []htmlrender.File
		for _, f := range files {
			o := eng.AlignAndRender(f)
			a.printDiagnostics(cmd, f.Name(), o.Diagnostics)
			pages = append(pages, htmlrender.File{Name: f.Name(), Left: o.Left, Right: o.Right})
		}
		return htmlrender.Render(out, title, pages)
	default:
		eng, err := sidebyside.New(s.engine, termrender.Styler, nil)
		if err != nil {
			return err
		}
		r := termrender.New(termrender.Options{Width: s.width, TabWidth: s.tabWidth, Color: s.color})
		for i, f := range files {
			if i > 0 {
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
			}
			stream := eng.AlignAndStream(f, r.RenderRow)
			if err := r.Write(out, f.Name(), stream); err != nil {
				return err
			}
			a.printDiagnostics(cmd, f.Name(), stream.Diagnostics())
		}
		return nil
	}
}

func (a *app) printDiagnostics(cmd *cobra.Command, name string, defects []sidebyside.Defect) {
	if !a.flags.diagnostics {
		return
	}
	for _, d := range defects {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", name, d)
	}
}

// loadDiff reads and parses the diff named by args. With markdown, the input is a Markdown document and only its diff fences are parsed.
func loadDiff(cmd *cobra.Command, args []string, markdown bool) (string, []unidiff.File, error) {
	name, text, err := readDiff(cmd, args)
	if err != nil {
		return "", nil, err
	}
	if markdown {
		fences, err := mdfence.DiffFences([]byte(text))
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
		simplelogger.Log("cli: %s: %d diff fences", name, len(fences))
		text = mdfence.Join(fences)
	}
	files, err := unidiff.Parse(text)
	if err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return name, files, nil
}

// readDiff returns the diff text named by args: a file, or stdin when args is empty or "-".
func readDiff(cmd *cobra.Command, args []string) (name string, text string, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "stdin", string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(b), nil
}

func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
