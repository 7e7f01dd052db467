package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/azdo-mcp/internal/logger"
	"github.com/custodia-labs/azdo-mcp/internal/naming"
)

var (
	lintSchemaBuilder string
	lintWatch         bool
)

// lintExtensions are the source files scanned when walking a directory.
var lintExtensions = []string{".ts", ".mts", ".js", ".mjs", ".go"}

// lintSkipDirs are never descended into.
var lintSkipDirs = []string{".git", "node_modules", "vendor", "dist"}

// lintDebounce coalesces bursts of file events in watch mode.
const lintDebounce = 200 * time.Millisecond

var lintCmd = &cobra.Command{
	Use:   "lint-names <path>...",
	Short: "Check tool and field names in source files",
	Long: `Scans source files for tool name tables and schema field declarations and
checks every name against the MCP naming rules: 1 to 64 characters from
A-Z, a-z, 0-9, '_', '.' and '-'. Field names longer than 32 characters are
reported as warnings.

Tool tables are object or map literals bound to a name containing "tools",
e.g. "export const CODE_TOOLS = {" or "var searchTools = map[string]string{".
Fields are keys followed by a schema builder call, e.g. "project: z.array(".
The scan is line oriented and best effort.

Directories are walked for .ts, .js and .go files. The command exits
non-zero when any name is invalid. With --watch it re-runs on every change
until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintSchemaBuilder, "schema-builder", naming.DefaultSchemaBuilder,
		"identifier of the schema builder marking field declarations")
	lintCmd.Flags().BoolVarP(&lintWatch, "watch", "w", false, "re-run when files change")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	extractor := naming.NewExtractor(lintSchemaBuilder)
	out := cmd.OutOrStdout()
	styles := newLintStyles(isTerminal(out))

	errs, err := lintPaths(out, styles, extractor, args)
	if err != nil {
		return err
	}

	if lintWatch {
		return watchLint(cmd.Context(), out, styles, extractor, args)
	}

	if errs > 0 {
		return fmt.Errorf("%d invalid name(s)", errs)
	}
	return nil
}

// lintPaths lints every file under paths and returns the number of errors.
func lintPaths(out io.Writer, styles lintStyles, extractor *naming.Extractor, paths []string) (int, error) {
	files, err := collectLintFiles(paths)
	if err != nil {
		return 0, err
	}

	var errs, warnings, names int
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}

		report := extractor.Lint(string(src))
		names += len(report.Operations) + len(report.Fields)
		errs += report.Errors()
		warnings += len(report.Findings) - report.Errors()

		renderReport(out, styles, path, report)
	}

	summary := fmt.Sprintf("%d file(s), %d name(s): %d error(s), %d warning(s)",
		len(files), names, errs, warnings)
	if errs > 0 {
		fmt.Fprintln(out, styles.err.Render(summary))
	} else {
		fmt.Fprintln(out, styles.ok.Render(summary))
	}
	return errs, nil
}

// renderReport prints the findings for one file. Clean files are listed
// only in verbose mode.
func renderReport(out io.Writer, styles lintStyles, path string, report naming.Report) {
	if len(report.Findings) == 0 {
		if logger.IsVerbose() && len(report.Operations)+len(report.Fields) > 0 {
			fmt.Fprintf(out, "%s %s\n", styles.file.Render(path), styles.muted.Render("ok"))
		}
		return
	}

	fmt.Fprintln(out, styles.file.Render(path))
	for _, f := range report.Findings {
		mark := styles.err.Render("✗ error")
		if f.Severity == naming.SeverityWarning {
			mark = styles.warn.Render("! warning")
		}
		fmt.Fprintf(out, "  %s %s\n", mark, f.Message)
	}
}

// collectLintFiles expands directories into the source files they contain.
// Files named explicitly are always included.
func collectLintFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(lintSkipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isLintSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func isLintSource(path string) bool {
	return slices.Contains(lintExtensions, strings.ToLower(filepath.Ext(path)))
}

// watchLint re-runs the lint on changes under paths until ctx is done.
func watchLint(
	ctx context.Context,
	out io.Writer,
	styles lintStyles,
	extractor *naming.Extractor,
	paths []string,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	fmt.Fprintln(out, styles.muted.Render(fmt.Sprintf("Watching %d director(ies), Ctrl+C to stop", len(dirs))))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isLintSource(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Change: %s %s", event.Op, event.Name)
			pending = time.After(lintDebounce)

		case <-pending:
			pending = nil
			fmt.Fprintln(out)
			if _, err := lintPaths(out, styles, extractor, paths); err != nil {
				fmt.Fprintln(out, styles.err.Render(err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error: %v", err)
		}
	}
}

// watchDirs returns the directories to watch: every non-skipped directory
// under a directory argument and the parent of a file argument.
func watchDirs(paths []string) ([]string, error) {
	var dirs []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			dirs = append(dirs, filepath.Dir(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && slices.Contains(lintSkipDirs, d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

// lintStyles styles the lint report.
type lintStyles struct {
	file  lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	ok    lipgloss.Style
	muted lipgloss.Style
}

// newLintStyles returns coloured styles, or plain ones when colour is off.
func newLintStyles(colour bool) lintStyles {
	if !colour {
		plain := lipgloss.NewStyle()
		return lintStyles{file: plain, err: plain, warn: plain, ok: plain, muted: plain}
	}
	return lintStyles{
		file:  lipgloss.NewStyle().Bold(true),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
