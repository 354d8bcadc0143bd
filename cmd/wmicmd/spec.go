package main

import (
	"context"

	"github.com/zx06/wmicmd/internal/app"
	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/switches"
)

// specCmd exports the command catalogue for AI/agents.
type specCmd struct{}

func (specCmd) Spec() command.Spec {
	return command.Spec{
		Name:        "spec",
		Description: "Export the tool spec for AI/agents",
		Usage:       "spec [options]",
		Table: append(switches.HelpSwitches("Display the command options syntax"),
			formatSwitch([]string{string(output.FormatJSON), string(output.FormatYAML)}, "Output format: json|yaml (default: json)"),
		),
	}
}

func (specCmd) Run(_ context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	if len(parsed.Args()) > 0 {
		return usageError("Unexpected argument '%s'", parsed.Args()[0])
	}
	format, xe := parseOutputFormat(parsed.Value(switches.Format), string(output.FormatJSON))
	if xe != nil {
		return 0, xe
	}
	if err := output.New(env.Out, env.Err).WriteOK(format, app.BuildSpec(env.Catalog)); err != nil {
		return 0, err
	}
	return 0, nil
}
