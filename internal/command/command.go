// Package command defines the contract every wmicmd sub-command follows:
// parse its own switches, answer its own help request, otherwise run.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/switches"
	"github.com/zx06/wmicmd/internal/wmi"
)

// Spec describes a command to the parser, the help printer and the
// catalogue.
type Spec struct {
	Name        string
	Description string // one line
	Usage       string // syntax after the program name, e.g. "query [options] <wql>"
	Table       switches.Table
	// Hidden commands are left out of the application usage block.
	Hidden bool
	// PassThrough commands receive every token as a positional argument,
	// with no switch parsing and no help short-circuit.
	PassThrough bool
}

// Runner is a concrete command.
type Runner interface {
	Spec() Spec
	Run(ctx context.Context, env *Env, parsed *switches.Parsed) (int, error)
}

// AppInfo is the build metadata of the running program.
type AppInfo struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	Copyright string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// Catalog lists everything the application can dispatch to.
type Catalog struct {
	App      AppInfo
	Global   switches.Table
	Commands []Spec
}

// Env is what a command may touch while it runs.
type Env struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
	Level  *slog.LevelVar
	App    AppInfo
	// Session returns the WMI session, acquiring it on first call. The
	// caller of Execute releases it.
	Session func() (wmi.Session, error)
	Catalog Catalog
}

// Execute runs r against args (the tokens after the command name).
// Parse errors and errors from Run are returned unchanged.
func Execute(ctx context.Context, r Runner, args []string, env *Env) (int, error) {
	spec := r.Spec()
	if spec.PassThrough {
		return r.Run(ctx, env, switches.Positional(args))
	}

	parsed, err := switches.Parse(spec.Table, args, switches.Unix)
	if err != nil {
		return int(errors.ExitCodeFor(errors.CodeParse)), err
	}

	if parsed.IsSet(switches.Usage) {
		if err := WriteHelp(env.Out, env.App.Name, spec); err != nil {
			return int(errors.ExitInternal), errors.Wrap(errors.CodeInternal, "failed to write help", nil, err)
		}
		return int(errors.ExitOK), nil
	}

	return r.Run(ctx, env, parsed)
}

// WriteHelp prints the description, the usage line and the switch table.
func WriteHelp(w io.Writer, appName string, spec Spec) error {
	if _, err := fmt.Fprintf(w, "%s\n\nUSAGE: %s %s\n\n", spec.Description, appName, spec.Usage); err != nil {
		return err
	}
	return spec.Table.Format(w)
}
