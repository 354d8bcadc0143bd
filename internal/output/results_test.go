package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/zx06/wmicmd/internal/wmi"
)

func sampleResults() []HostResult {
	return []HostResult{
		{
			Host: "dc01",
			Objects: []wmi.Object{
				{Class: "Win32_OperatingSystem", Properties: []wmi.Property{
					{Name: "Caption", Type: "string", Value: "Windows Server"},
					{Name: "LastBootUpTime", Type: "datetime", Value: "20240105093000.500000+060"},
				}},
			},
		},
		{Host: "sql01", Error: "access denied"},
	}
}

func TestWriteResults_Text(t *testing.T) {
	cases := []struct {
		name string
		opts ResultOptions
		want []string
	}{
		{"plain", ResultOptions{}, []string{"Caption=Windows Server\n", "LastBootUpTime=2024-01-05 09:30:00\n"}},
		{"align", ResultOptions{Align: true}, []string{"Caption       =Windows Server\n"}},
		{"show host", ResultOptions{ShowHost: true}, []string{"dc01:Caption=Windows Server\n"}},
		{"show types", ResultOptions{ShowTypes: true}, []string{"Caption=Windows Server [string]\n"}},
		{"no format", ResultOptions{NoFormat: true}, []string{"LastBootUpTime=20240105093000.500000+060\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if err := New(&out, &errOut).WriteResults(FormatText, sampleResults(), tc.opts); err != nil {
				t.Fatal(err)
			}
			for _, s := range tc.want {
				if !strings.Contains(out.String(), s) {
					t.Errorf("missing %q in:\n%s", s, out.String())
				}
			}
			if !strings.Contains(errOut.String(), "ERROR: sql01: access denied") {
				t.Errorf("stderr=%q", errOut.String())
			}
		})
	}
}

func TestWriteResults_TextSeparatesObjects(t *testing.T) {
	results := []HostResult{{Host: ".", Objects: []wmi.Object{
		{Properties: []wmi.Property{{Name: "Name", Value: "a"}}},
		{Properties: []wmi.Property{{Name: "Name", Value: "b"}}},
	}}}
	var out bytes.Buffer
	if err := New(&out, &bytes.Buffer{}).WriteResults(FormatText, results, ResultOptions{}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "Name=a\n\nName=b\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteResults_CSV(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, &bytes.Buffer{}).WriteResults(FormatCSV, sampleResults(), ResultOptions{ShowHost: true, ShowTypes: true}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%q", lines)
	}
	if lines[0] != "Host,Caption [string],LastBootUpTime [datetime]" {
		t.Errorf("header=%q", lines[0])
	}
	if lines[1] != "dc01,Windows Server,2024-01-05 09:30:00" {
		t.Errorf("row=%q", lines[1])
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, &bytes.Buffer{}).WriteResults(FormatJSON, sampleResults(), ResultOptions{}); err != nil {
		t.Fatal(err)
	}
	var env struct {
		OK   bool         `json:"ok"`
		Data []HostResult `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.OK || len(env.Data) != 2 || env.Data[1].Error != "access denied" {
		t.Fatalf("env=%+v", env)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		name string
		p    wmi.Property
		raw  bool
		want string
	}{
		{"nil", wmi.Property{Value: nil}, false, ""},
		{"bool", wmi.Property{Type: "boolean", Value: true}, false, "TRUE"},
		{"bool raw", wmi.Property{Type: "boolean", Value: true}, true, "true"},
		{"number", wmi.Property{Type: "uint32", Value: int64(42)}, false, "42"},
		{"array", wmi.Property{Type: "string[]", Value: []any{"a", "b"}}, false, "{a, b}"},
		{"bad datetime", wmi.Property{Type: "datetime", Value: "yesterday"}, false, "yesterday"},
		{"datetime", wmi.Property{Type: "datetime", Value: "20231231235959.000000+000"}, false, "2023-12-31 23:59:59"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatValue(tc.p, tc.raw); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
