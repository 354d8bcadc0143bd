package main

import (
	"context"

	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/switches"
)

// profilesCmd lists the configured profiles, or shows one with --profile.
type profilesCmd struct {
	deps deps
}

func (c *profilesCmd) Spec() command.Spec {
	table := append(switches.HelpSwitches("Display the command options syntax"), configSwitches()...)
	table = append(table, formatSwitch(output.Formats(), "Output format: text|table|json|yaml|csv|auto"))
	return command.Spec{
		Name:        "profiles",
		Description: "List the configured profiles",
		Usage:       "profiles [options]",
		Table:       table,
	}
}

func (c *profilesCmd) Run(_ context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	if len(parsed.Args()) > 0 {
		return usageError("Unexpected argument '%s'", parsed.Args()[0])
	}
	format, xe := parseOutputFormat(parsed.Value(switches.Format))
	if xe != nil {
		return 0, xe
	}

	w := output.New(env.Out, env.Err)
	if parsed.IsSet(switches.Profile) {
		resolved, xe := c.deps.resolveConfig(parsed)
		if xe != nil {
			return 0, xe
		}
		return 0, w.WriteOK(format, config.ShowProfile(resolved.ProfileName, resolved.Profile))
	}

	cfg, cfgPath, xe := config.LoadConfig(config.Options{
		ConfigPath: parsed.Value(switches.Config),
		WorkDir:    c.deps.workDir,
		HomeDir:    c.deps.homeDir,
	})
	if xe != nil {
		return 0, xe
	}
	env.Logger.Debug("listing profiles", "config", cfgPath, "count", len(cfg.Profiles))
	if err := w.WriteOK(format, config.ListProfiles(cfg)); err != nil {
		return 0, errors.AsOrWrap(err)
	}
	return 0, nil
}
