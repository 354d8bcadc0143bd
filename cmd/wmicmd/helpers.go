package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/secret"
	"github.com/zx06/wmicmd/internal/switches"
)

const envProfile = "WMICMD_PROFILE"

// deps are the process-level collaborators commands reach for. Tests
// replace them.
type deps struct {
	getenv  func(string) string
	keyring secret.KeyringAPI
	prompt  func(in io.Reader, out io.Writer, user string) (string, error)
	workDir string
	homeDir string
}

func defaultDeps() deps {
	return deps{getenv: os.Getenv, keyring: secret.DefaultKeyring(), prompt: promptPassword}
}

// promptPassword reads a password from the terminal without echo. A
// non-terminal stdin yields an empty password.
func promptPassword(in io.Reader, out io.Writer, user string) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	_, _ = fmt.Fprintf(out, "Password for %s: ", user)
	b, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, "failed to read password", nil, err)
	}
	return string(b), nil
}

// resolveConfig loads the profiles file named by --config (or the
// default locations) and selects the --profile / WMICMD_PROFILE profile.
func (d deps) resolveConfig(parsed *switches.Parsed) (config.Resolved, *errors.XError) {
	if parsed.IsSet(switches.Config) && strings.TrimSpace(parsed.Value(switches.Config)) == "" {
		return config.Resolved{}, errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
	}
	getenv := d.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return config.Resolve(config.Options{
		ConfigPath:    parsed.Value(switches.Config),
		CLIProfile:    parsed.Value(switches.Profile),
		CLIProfileSet: parsed.IsSet(switches.Profile),
		EnvProfile:    getenv(envProfile),
		WorkDir:       d.workDir,
		HomeDir:       d.homeDir,
	})
}

// parseOutputFormat picks the first non-empty of the candidates and
// validates it.
func parseOutputFormat(candidates ...string) (output.Format, *errors.XError) {
	s := string(output.FormatAuto)
	for _, c := range candidates {
		if c != "" {
			s = strings.ToLower(c)
			break
		}
	}
	f := output.Format(s)
	if !output.IsValid(f) {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s})
	}
	return f, nil
}

func formatSwitch(allowed []string, help string) switches.Definition {
	return switches.Definition{
		ID: switches.Format, Short: "o", Long: "format", Argument: switches.Required,
		ArgName: "format", Allowed: allowed, Help: help,
	}
}

func configSwitches() switches.Table {
	return switches.Table{
		{ID: switches.Config, Long: "config", Argument: switches.Required, ArgName: "path", Help: "Profiles file (default: ./wmicmd.yaml or ~/.config/wmicmd/wmicmd.yaml)"},
		{ID: switches.Profile, Long: "profile", Argument: switches.Required, ArgName: "name", Help: "Profile name (env: " + envProfile + ")"},
	}
}

func usageError(format string, args ...any) (int, error) {
	return int(errors.ExitUsage), errors.Newf(errors.CodeParse, format, args...)
}
