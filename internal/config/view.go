package config

import (
	"sort"
	"strconv"
	"strings"
)

const redacted = "***"

// ProfileListItem 是 profile 列表中的一行。
type ProfileListItem struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Hosts       []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	HostsFile   string   `json:"hosts_file,omitempty" yaml:"hosts_file,omitempty"`
}

type ProfileList []ProfileListItem

// ListProfiles 按名称排序列出所有 profile。
func ListProfiles(f File) ProfileList {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(ProfileList, 0, len(names))
	for _, name := range names {
		p := f.Profiles[name]
		out = append(out, ProfileListItem{Name: name, Description: p.Description, Hosts: p.Hosts, HostsFile: p.HostsFile})
	}
	return out
}

func (l ProfileList) TableData() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		hosts := strings.Join(p.Hosts, ",")
		if p.HostsFile != "" {
			if hosts != "" {
				hosts += ","
			}
			hosts += "@" + p.HostsFile
		}
		rows = append(rows, []string{p.Name, p.Description, hosts})
	}
	return []string{"name", "description", "hosts"}, rows
}

// ProfileView 是脱敏后的 profile 详情。
type ProfileView struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Hosts          []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	HostsFile      string   `json:"hosts_file,omitempty" yaml:"hosts_file,omitempty"`
	Namespace      string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	User           string   `json:"user,omitempty" yaml:"user,omitempty"`
	Password       string   `json:"password,omitempty" yaml:"password,omitempty"`
	AllowPlaintext bool     `json:"allow_plaintext" yaml:"allow_plaintext"`
	Format         string   `json:"format,omitempty" yaml:"format,omitempty"`
	ShowHost       bool     `json:"show_host" yaml:"show_host"`
	ShowTypes      bool     `json:"show_types" yaml:"show_types"`
	NoFormat       bool     `json:"no_format" yaml:"no_format"`
	Align          bool     `json:"align" yaml:"align"`
	Top            int      `json:"top,omitempty" yaml:"top,omitempty"`
}

// ShowProfile 返回 profile 详情。明文密码以 *** 代替，keyring 引用原样保留。
func ShowProfile(name string, p Profile) ProfileView {
	pw := p.Password
	if pw != "" && !strings.HasPrefix(pw, "keyring:") {
		pw = redacted
	}
	return ProfileView{
		Name:           name,
		Description:    p.Description,
		Hosts:          p.Hosts,
		HostsFile:      p.HostsFile,
		Namespace:      p.Namespace,
		User:           p.User,
		Password:       pw,
		AllowPlaintext: p.AllowPlaintext,
		Format:         p.Format,
		ShowHost:       p.ShowHost,
		ShowTypes:      p.ShowTypes,
		NoFormat:       p.NoFormat,
		Align:          p.Align,
		Top:            p.Top,
	}
}

func (v ProfileView) TableData() ([]string, [][]string) {
	rows := [][]string{
		{"name", v.Name},
		{"description", v.Description},
		{"hosts", strings.Join(v.Hosts, ",")},
		{"hosts_file", v.HostsFile},
		{"namespace", v.Namespace},
		{"user", v.User},
		{"password", v.Password},
		{"allow_plaintext", strconv.FormatBool(v.AllowPlaintext)},
		{"format", v.Format},
		{"show_host", strconv.FormatBool(v.ShowHost)},
		{"show_types", strconv.FormatBool(v.ShowTypes)},
		{"no_format", strconv.FormatBool(v.NoFormat)},
		{"align", strconv.FormatBool(v.Align)},
		{"top", strconv.Itoa(v.Top)},
	}
	return []string{"key", "value"}, rows
}
