package config

import "testing"

func TestListProfiles_Sorted(t *testing.T) {
	f := File{Profiles: map[string]Profile{
		"ops": {Hosts: []string{"a", "b"}, HostsFile: "/etc/hosts.txt"},
		"dev": {Description: "Dev lab"},
	}}
	l := ListProfiles(f)
	if len(l) != 2 || l[0].Name != "dev" || l[1].Name != "ops" {
		t.Fatalf("list=%+v", l)
	}
	headers, rows := l.TableData()
	if len(headers) != 3 || rows[1][2] != "a,b,@/etc/hosts.txt" {
		t.Errorf("headers=%v rows=%v", headers, rows)
	}
}

func TestShowProfile_Redacts(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"hunter2":           "***",
		"keyring:lab/admin": "keyring:lab/admin",
	}
	for in, want := range cases {
		if got := ShowProfile("p", Profile{Password: in}).Password; got != want {
			t.Errorf("password %q shown as %q, want %q", in, got, want)
		}
	}
}
