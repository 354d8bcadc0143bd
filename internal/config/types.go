package config

// File 表示 wmicmd.yaml 的配置结构。
// 约束：优先级为 CLI 开关 > ENV > Config。
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
	MCP      MCPConfig          `yaml:"mcp"`
}

// Profile 是一组查询默认值。
type Profile struct {
	Description string `yaml:"description"`

	// 目标主机
	Hosts     []string `yaml:"hosts"`
	HostsFile string   `yaml:"hosts_file"`
	Namespace string   `yaml:"namespace"`

	// 凭据
	User           string `yaml:"user"`
	Password       string `yaml:"password"` // 支持 keyring:xxx 引用
	AllowPlaintext bool   `yaml:"allow_plaintext"`

	// 输出
	Format    string `yaml:"format"`
	ShowHost  bool   `yaml:"show_host"`
	ShowTypes bool   `yaml:"show_types"`
	NoFormat  bool   `yaml:"no_format"`
	Align     bool   `yaml:"align"`
	Top       int    `yaml:"top"`
}

type MCPConfig struct {
	Transport string        `yaml:"transport"`
	HTTP      MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:xxx 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type Resolved struct {
	ConfigPath  string
	ProfileName string
	Profile     Profile
	File        File
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIProfile    string
	CLIProfileSet bool

	// ENV（由调用方注入，便于测试）
	EnvProfile string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
