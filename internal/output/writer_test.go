package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/zx06/wmicmd/internal/errors"
)

type rowsData struct{}

func (rowsData) TableData() ([]string, [][]string) {
	return []string{"name", "hosts"}, [][]string{{"lab", "dc01,sql01"}, {"ops", "."}}
}

func TestWriteOK_JSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatJSON, map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.OK || env.SchemaVersion != SchemaVersion {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWriteOK_YAMLEnvelope(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatYAML, map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	var env map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env["ok"] != true {
		t.Fatalf("unexpected envelope: %v", env)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("yaml output should end with newline")
	}
}

func TestWriteError_JSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	xe := errors.New(errors.CodeCfgInvalid, "bad", map[string]any{"x": 1})
	if err := w.WriteError(FormatJSON, xe); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.OK || env.Error == nil || env.Error.Code != errors.CodeCfgInvalid {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWriteError_Text(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteError(FormatText, errors.New(errors.CodeQueryFailed, "boom", nil)); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "ERROR: boom (WMICMD_QUERY_FAILED)\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteOK_Tabular(t *testing.T) {
	cases := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"NAME", "HOSTS", "dc01,sql01", "╭"}},
		{FormatCSV, []string{"name,hosts\n", "lab,\"dc01,sql01\"\n", "ops,.\n"}},
		{FormatText, []string{"name  hosts\n", "lab   dc01,sql01\n"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			var out bytes.Buffer
			if err := New(&out, &bytes.Buffer{}).WriteOK(tc.format, rowsData{}); err != nil {
				t.Fatal(err)
			}
			for _, s := range tc.want {
				if !strings.Contains(out.String(), s) {
					t.Errorf("missing %q in:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestWriteOK_NonTabularRejected(t *testing.T) {
	err := New(&bytes.Buffer{}, &bytes.Buffer{}).WriteOK(FormatTable, map[string]any{"k": "v"})
	xe, ok := errors.As(err)
	if !ok || xe.Code != errors.CodeInternal {
		t.Fatalf("err=%v", err)
	}
}

func TestWrite_InvalidFormat(t *testing.T) {
	err := New(&bytes.Buffer{}, &bytes.Buffer{}).WriteOK(Format("xml"), nil)
	xe, ok := errors.As(err)
	if !ok || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("err=%v", err)
	}
}

func TestResolve_Auto(t *testing.T) {
	var buf bytes.Buffer
	if got := Resolve(FormatAuto, &buf); got != FormatText {
		t.Errorf("auto on buffer = %s, want text", got)
	}
	if got := Resolve("", &buf); got != FormatText {
		t.Errorf("empty on buffer = %s, want text", got)
	}
	if got := Resolve(FormatJSON, &buf); got != FormatJSON {
		t.Errorf("explicit format changed to %s", got)
	}
}

func TestFormatsAreValid(t *testing.T) {
	for _, f := range Formats() {
		if !IsValid(Format(f)) {
			t.Errorf("%q listed but not valid", f)
		}
	}
	if IsValid("xml") {
		t.Error("xml should be invalid")
	}
}

func TestFailed_MessageOverride(t *testing.T) {
	xe := errors.New(errors.CodeQueryFailed, "query failed", map[string]any{"host": "dc01"})

	env := Failed(xe, "")
	if env.OK || env.Error.Message != "query failed" || env.Error.Details["host"] != "dc01" {
		t.Errorf("env=%+v", env)
	}
	if got := Failed(xe, "query failed: access denied").Error.Message; got != "query failed: access denied" {
		t.Errorf("message=%q", got)
	}
}
