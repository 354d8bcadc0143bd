package spec

import (
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/switches"
)

type SwitchSpec struct {
	Short       string   `json:"short,omitempty" yaml:"short,omitempty"`
	Long        string   `json:"long,omitempty" yaml:"long,omitempty"`
	Argument    string   `json:"argument" yaml:"argument"`
	ArgName     string   `json:"arg_name,omitempty" yaml:"arg_name,omitempty"`
	Repeatable  bool     `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Allowed     []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

type CommandSpec struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Usage       string       `json:"usage,omitempty" yaml:"usage,omitempty"`
	Switches    []SwitchSpec `json:"switches,omitempty" yaml:"switches,omitempty"`
}

type Spec struct {
	SchemaVersion int           `json:"schema_version" yaml:"schema_version"`
	Name          string        `json:"name" yaml:"name"`
	Version       string        `json:"version" yaml:"version"`
	Global        []SwitchSpec  `json:"global_switches" yaml:"global_switches"`
	Commands      []CommandSpec `json:"commands" yaml:"commands"`
	ErrorCodes    []errors.Code `json:"error_codes" yaml:"error_codes"`
}

// Switches 把开关表转为目录条目，同一 ID 的多个定义保持各自一条。
// 没有帮助文本的定义继承同 ID 第一条非空帮助。
func Switches(t switches.Table) []SwitchSpec {
	help := map[switches.ID]string{}
	for _, d := range t {
		if _, ok := help[d.ID]; !ok && d.Help != "" {
			help[d.ID] = d.Help
		}
	}
	out := make([]SwitchSpec, 0, len(t))
	for _, d := range t {
		desc := d.Help
		if desc == "" {
			desc = help[d.ID]
		}
		var allowed []string
		if len(d.Allowed) > 0 {
			allowed = append(allowed, d.Allowed...)
		}
		out = append(out, SwitchSpec{
			Short:       d.Short,
			Long:        d.Long,
			Argument:    d.Argument.String(),
			ArgName:     d.ArgName,
			Repeatable:  d.Cardinality == switches.Multiple,
			Allowed:     allowed,
			Description: desc,
		})
	}
	return out
}
