// Package app is the process-level front end: it decides between a
// sub-command and the application's own switches, scopes the WMI
// session around the command, and turns every failure into an exit code.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/log"
	"github.com/zx06/wmicmd/internal/manual"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/spec"
	"github.com/zx06/wmicmd/internal/switches"
	"github.com/zx06/wmicmd/internal/wmi"
)

// Entry registers one command name with its constructor.
type Entry struct {
	Name    string
	Summary string // usage block text; the command description when empty
	New     func() command.Runner
}

type Options struct {
	Info     command.AppInfo
	Commands []Entry
	Provider wmi.Provider

	// ManualDir is searched for the manual; the executable's directory when empty.
	ManualDir string
	Viewer    manual.Viewer

	Logger *slog.Logger
	Level  *slog.LevelVar
}

type Application struct {
	info     command.AppInfo
	entries  []Entry
	provider wmi.Provider
	manDir   string
	viewer   manual.Viewer
	logger   *slog.Logger
	level    *slog.LevelVar
	global   switches.Table
}

func New(opts Options) *Application {
	a := &Application{
		info:     opts.Info,
		entries:  opts.Commands,
		provider: opts.Provider,
		manDir:   opts.ManualDir,
		viewer:   opts.Viewer,
		logger:   opts.Logger,
		level:    opts.Level,
		global:   GlobalSwitches(),
	}
	if a.level == nil {
		a.level = log.NewLevel()
	}
	if a.logger == nil {
		a.logger = log.Discard()
	}
	if a.viewer == nil {
		a.viewer = manual.SystemViewer{}
	}
	return a
}

// GlobalSwitches is the table parsed when no command is named.
func GlobalSwitches() switches.Table {
	return append(switches.HelpSwitches("Display the program options syntax"),
		switches.Definition{ID: switches.Version, Short: "v", Long: "version", Help: "Display the program version"},
		switches.Definition{ID: switches.Manual, Long: "manual", Help: "Display the manual"},
	)
}

// Run executes one command line. args[0] is the program name.
func (a *Application) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		code int
		err  error
	)
	if len(args) > 1 && !isSwitchLike(args[1]) {
		code, err = a.runCommand(ctx, args[1], args[2:], stdin, stdout, stderr)
	} else {
		var rest []string
		if len(args) > 1 {
			rest = args[1:]
		}
		code, err = a.runGlobal(rest, stdout, stderr)
	}
	if err != nil {
		xe := errors.AsOrWrap(err)
		_, _ = fmt.Fprintf(stderr, "ERROR: %s\n", xe.Describe())
		return int(errors.ExitCodeFor(xe.Code))
	}
	return code
}

func isSwitchLike(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "-")
}

func (a *Application) runCommand(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	scope := wmi.NewScope(a.provider, a.logger)
	defer func() {
		if scope.Acquired() {
			a.logger.Debug("releasing wmi session", "command", name)
		}
		if err := scope.Close(); err != nil {
			a.logger.Warn("failed to release wmi session", "err", err)
		}
	}()

	entry, ok := a.lookup(name)
	if !ok {
		return int(errors.ExitUsage), errors.Newf(errors.CodeDispatch, "Unknown command: '%s'", name)
	}
	a.logger.Debug("dispatch", "command", entry.Name, "args", len(args))

	env := &command.Env{
		In:      stdin,
		Out:     stdout,
		Err:     stderr,
		Logger:  a.logger,
		Level:   a.level,
		App:     a.info,
		Session: scope.Session,
		Catalog: a.Catalog(),
	}
	return command.Execute(ctx, entry.New(), args, env)
}

// lookup matches command names without regard to case.
func (a *Application) lookup(name string) (Entry, bool) {
	folded := cases.Fold().String(name)
	for _, e := range a.entries {
		if cases.Fold().String(e.Name) == folded {
			return e, true
		}
	}
	return Entry{}, false
}

// runGlobal handles the application's own switches. When several are
// given, usage wins over version, and version over manual.
func (a *Application) runGlobal(args []string, stdout, stderr io.Writer) (int, error) {
	parsed, err := switches.Parse(a.global, args, switches.AnyFormat)
	if err != nil {
		return int(errors.ExitUsage), err
	}
	if rest := parsed.Args(); len(rest) > 0 {
		return int(errors.ExitUsage), errors.Newf(errors.CodeParse, "Unexpected argument '%s'", rest[0])
	}
	switch {
	case parsed.IsSet(switches.Usage):
		return int(errors.ExitOK), a.writeUsage(stdout)
	case parsed.IsSet(switches.Version):
		return int(errors.ExitOK), a.writeVersion(stdout)
	case parsed.IsSet(switches.Manual):
		a.showManual(stderr)
		return int(errors.ExitOK), nil
	}
	return int(errors.ExitUsage), errors.New(errors.CodeDispatch, "No command specified", nil)
}

const usageNameWidth = 16

func (a *Application) writeUsage(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nUSAGE: %s <command> [options] ...\n\n", a.info.Name)
	b.WriteString("where <command> is one of:-\n\n")
	for _, e := range a.entries {
		s := e.New().Spec()
		if s.Hidden {
			continue
		}
		summary := e.Summary
		if summary == "" {
			summary = s.Description
		}
		pad := max(usageNameWidth-len(e.Name), 1)
		fmt.Fprintf(&b, "%s%s%s\n", e.Name, strings.Repeat(" ", pad), summary)
	}
	b.WriteString("\nFor help on an individual command use:-\n\n")
	fmt.Fprintf(&b, "%s <command> -?\n\n", a.info.Name)
	b.WriteString("Non-command options:-\n\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return a.global.Format(w)
}

// displayVersion prefixes numeric versions with "v"; "dev" and the like
// print as given.
func displayVersion(v string) string {
	if v != "" && v[0] >= '0' && v[0] <= '9' {
		return "v" + v
	}
	return v
}

func (a *Application) writeVersion(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s\n\n", a.info.Name, displayVersion(a.info.Version))
	fmt.Fprintf(&b, "commit %s, built %s\n", a.info.Commit, a.info.Date)
	if a.info.Copyright != "" {
		b.WriteString(a.info.Copyright)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// showManual opens the manual if one is installed, else reports it
// missing. Neither outcome is a failure.
func (a *Application) showManual(stderr io.Writer) {
	dir := a.manDir
	if dir == "" {
		d, err := manual.ExecutableDir()
		if err != nil {
			a.logger.Debug("cannot locate executable", "err", err)
		}
		dir = d
	}
	path, err := manual.Find(dir, a.info.Name)
	if err == nil {
		a.logger.Debug("opening manual", "path", path)
		err = a.viewer.Open(path)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "ERROR: %s\n", errors.AsOrWrap(err).Describe())
	}
}

// Catalog describes every registered command.
func (a *Application) Catalog() command.Catalog {
	specs := make([]command.Spec, 0, len(a.entries))
	for _, e := range a.entries {
		specs = append(specs, e.New().Spec())
	}
	return command.Catalog{App: a.info, Global: a.global, Commands: specs}
}

// BuildSpec 导出机器可读的工具目录（供 spec 命令与 AI/agent 使用）。
func (a *Application) BuildSpec() spec.Spec {
	return BuildSpec(a.Catalog())
}

func BuildSpec(c command.Catalog) spec.Spec {
	cmds := make([]spec.CommandSpec, 0, len(c.Commands))
	for _, s := range c.Commands {
		if s.Hidden {
			continue
		}
		cmds = append(cmds, spec.CommandSpec{
			Name:        s.Name,
			Description: s.Description,
			Usage:       c.App.Name + " " + s.Usage,
			Switches:    spec.Switches(s.Table),
		})
	}
	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Name:          c.App.Name,
		Version:       c.App.Version,
		Global:        spec.Switches(c.Global),
		Commands:      cmds,
		ErrorCodes:    errors.AllCodes(),
	}
}
