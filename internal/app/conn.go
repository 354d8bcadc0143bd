package app

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/secret"
	"github.com/zx06/wmicmd/internal/wmi"
)

// TargetOptions 是解析查询目标所需的输入。开关值优先于 profile。
type TargetOptions struct {
	Hosts     []string // --hosts 的原始值，可包含逗号列表
	HostsFile string
	User      string
	Password  string // 明文或 keyring:xxx
	Namespace string
	Profile   config.Profile
	Keyring   secret.KeyringAPI // nil 则用系统 keyring
}

// ResolveTargets 合并开关与 profile，得到每个主机的连接目标。
// 没有任何主机时使用本机 "."。
func ResolveTargets(opts TargetOptions) ([]wmi.Target, *errors.XError) {
	hosts := SplitHosts(opts.Hosts)
	if opts.HostsFile != "" {
		fileHosts, xe := ReadHostsFile(opts.HostsFile)
		if xe != nil {
			return nil, xe
		}
		hosts = append(hosts, fileHosts...)
	}
	if len(hosts) == 0 {
		hosts = SplitHosts(opts.Profile.Hosts)
		if opts.Profile.HostsFile != "" {
			fileHosts, xe := ReadHostsFile(opts.Profile.HostsFile)
			if xe != nil {
				return nil, xe
			}
			hosts = append(hosts, fileHosts...)
		}
	}
	hosts = dedupe(hosts)
	if len(hosts) == 0 {
		hosts = []string{wmi.LocalHost}
	}

	user := firstNonEmpty(opts.User, opts.Profile.User)

	// 开关上的明文密码按原样接受；profile 中的明文需要 allow_plaintext
	password := opts.Password
	allowPlaintext := true
	if password == "" {
		password = opts.Profile.Password
		allowPlaintext = opts.Profile.AllowPlaintext
	}
	if password != "" {
		pw, xe := secret.Resolve(password, secret.Options{AllowPlaintext: allowPlaintext, Keyring: opts.Keyring})
		if xe != nil {
			return nil, xe
		}
		password = pw
	}

	namespace := firstNonEmpty(opts.Namespace, opts.Profile.Namespace, wmi.DefaultNamespace)

	targets := make([]wmi.Target, len(hosts))
	for i, h := range hosts {
		targets[i] = wmi.Target{Host: h, Namespace: namespace, User: user, Password: password}
	}
	return targets, nil
}

// SplitHosts 拆分逗号分隔的主机列表并去掉空项。
func SplitHosts(values []string) []string {
	var hosts []string
	for _, v := range values {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
	}
	return hosts
}

// ReadHostsFile 读取主机文件：每行一个主机，忽略空行和 # 注释。
func ReadHostsFile(path string) ([]string, *errors.XError) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeResourceMissing, "Hosts file missing - '"+path+"'", map[string]any{"path": path})
		}
		return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read hosts file", map[string]any{"path": path}, err)
	}
	defer f.Close()

	var hosts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			hosts = append(hosts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read hosts file", map[string]any{"path": path}, err)
	}
	return hosts, nil
}

// RunQueries 依次在每个目标上执行 wql。单个主机失败不影响其他主机；
// 返回的错误是最后一个失败主机的错误。
func RunQueries(ctx context.Context, sess wmi.Session, targets []wmi.Target, wql string, opts wmi.QueryOptions, logger *slog.Logger) ([]output.HostResult, *errors.XError) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]output.HostResult, 0, len(targets))
	var last *errors.XError
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(errors.CodeQueryFailed, "query cancelled", nil, err)
		}
		objs, xe := queryOne(ctx, sess, t, wql, opts)
		if xe != nil {
			logger.Debug("query failed", "host", t.Host, "code", xe.Code)
			results = append(results, output.HostResult{Host: t.Host, Error: xe.Describe()})
			last = xe
			continue
		}
		logger.Debug("query done", "host", t.Host, "objects", len(objs))
		results = append(results, output.HostResult{Host: t.Host, Objects: objs})
	}
	return results, last
}

func queryOne(ctx context.Context, sess wmi.Session, t wmi.Target, wql string, opts wmi.QueryOptions) ([]wmi.Object, *errors.XError) {
	conn, err := sess.Connect(ctx, t)
	if err != nil {
		return nil, errors.AsOrWrap(err)
	}
	defer conn.Close()
	objs, err := conn.Query(ctx, wql, opts)
	if err != nil {
		return nil, errors.AsOrWrap(err)
	}
	return objs, nil
}

func dedupe(hosts []string) []string {
	out := hosts[:0]
	for _, h := range hosts {
		dup := false
		for _, seen := range out {
			if strings.EqualFold(seen, h) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, h)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
