package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zx06/wmicmd/internal/errors"
)

const fileName = "wmicmd.yaml"

// searchPaths 是未指定 --config 时依次尝试的位置：工作目录，然后 ~/.config/wmicmd。
func searchPaths(workDir, homeDir string) []string {
	var paths []string
	if workDir != "" {
		paths = append(paths, filepath.Join(workDir, fileName))
	}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ".config", "wmicmd", fileName))
	}
	return paths
}

// decode 严格解析：未知字段报错，空文件视为空配置。
func decode(path string, b []byte) (File, *errors.XError) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "invalid config file", map[string]any{"path": path}, err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	for name, p := range f.Profiles {
		if p.Top < 0 {
			return File{}, errors.New(errors.CodeCfgInvalid, "top must not be negative",
				map[string]any{"path": path, "profile": name, "top": p.Top})
		}
		f.Profiles[name] = normalize(p, filepath.Dir(path))
	}
	return f, nil
}

// normalize 去掉主机名两侧空白，并把相对 hosts_file 解析到配置文件所在目录。
func normalize(p Profile, dir string) Profile {
	hosts := make([]string, 0, len(p.Hosts))
	for _, h := range p.Hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) > 0 {
		p.Hosts = hosts
	} else {
		p.Hosts = nil
	}
	if p.HostsFile != "" && !filepath.IsAbs(p.HostsFile) {
		p.HostsFile = filepath.Join(dir, p.HostsFile)
	}
	p.Format = strings.ToLower(strings.TrimSpace(p.Format))
	return p
}

func readFile(path string) (File, *errors.XError) {
	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return File{}, errors.New(errors.CodeCfgNotFound, "config file not found", map[string]any{"path": path})
	case err != nil:
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "failed to read config file", map[string]any{"path": path}, err)
	}
	return decode(path, b)
}

// LoadConfig 加载配置文件，返回完整配置和实际读取的路径。
// 显式 ConfigPath 不存在时报错；默认位置都没有文件时返回空配置。
func LoadConfig(opts Options) (File, string, *errors.XError) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	homeDir := opts.HomeDir
	if homeDir == "" {
		homeDir, _ = os.UserHomeDir()
	}

	if opts.ConfigPath != "" {
		path := opts.ConfigPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		f, xe := readFile(path)
		if xe != nil {
			return File{}, "", xe
		}
		return f, path, nil
	}

	for _, path := range searchPaths(workDir, homeDir) {
		f, xe := readFile(path)
		if xe == nil {
			return f, path, nil
		}
		if xe.Code != errors.CodeCfgNotFound {
			return File{}, "", xe
		}
	}
	return File{Profiles: map[string]Profile{}}, "", nil
}
