package config

import (
	"github.com/zx06/wmicmd/internal/errors"
)

// Resolve 读取配置并选择 profile：--profile > WMICMD_PROFILE > profiles.default > 空。
// 显式指定（CLI 或 ENV）但不存在的 profile 报错；默认 profile 缺失不报错。
func Resolve(opts Options) (Resolved, *errors.XError) {
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	profile := ""
	explicit := false
	if opts.CLIProfileSet {
		profile = opts.CLIProfile
		explicit = true
	} else if opts.EnvProfile != "" {
		profile = opts.EnvProfile
		explicit = true
	} else if _, ok := cfg.Profiles["default"]; ok {
		profile = "default"
	}

	var selected Profile
	if profile != "" {
		p, ok := cfg.Profiles[profile]
		if !ok && explicit {
			return Resolved{}, errors.New(errors.CodeCfgInvalid, "profile does not exist",
				map[string]any{"name": profile, "config_path": cfgPath, "reason": "profile_not_found"})
		}
		selected = p
	}

	return Resolved{ConfigPath: cfgPath, ProfileName: profile, Profile: selected, File: cfg}, nil
}
