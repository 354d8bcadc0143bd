package spec

import (
	"testing"

	"github.com/zx06/wmicmd/internal/switches"
)

func TestSwitches(t *testing.T) {
	table := append(switches.HelpSwitches("Display the command options syntax"),
		switches.Definition{ID: switches.Hostnames, Short: "s", Long: "hosts", Cardinality: switches.Multiple, Argument: switches.Required, ArgName: "host", Help: "Remote host"},
		switches.Definition{ID: switches.Format, Short: "o", Long: "format", Argument: switches.Required, Allowed: []string{"json", "yaml"}},
	)
	got := Switches(table)
	if len(got) != 4 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Short != "?" || got[0].Description != "Display the command options syntax" {
		t.Errorf("-? should inherit help text, got %+v", got[0])
	}
	if got[2].Argument != "required" || !got[2].Repeatable || got[2].ArgName != "host" {
		t.Errorf("hosts=%+v", got[2])
	}
	if got[3].Repeatable || len(got[3].Allowed) != 2 {
		t.Errorf("format=%+v", got[3])
	}
	if got[1].Argument != "none" {
		t.Errorf("help argument=%q", got[1].Argument)
	}
}
