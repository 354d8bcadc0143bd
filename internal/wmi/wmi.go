// Package wmi is the narrow interface to Windows Management
// Instrumentation used by the query commands.
package wmi

import (
	"context"
	"strconv"
)

const (
	// LocalHost is the WMI name for the machine the tool runs on.
	LocalHost = "."
	// DefaultNamespace is used when neither switch nor profile names one.
	DefaultNamespace = `root\cimv2`
)

// Provider hands out the process-wide session. Only one session is live
// at a time.
type Provider interface {
	Acquire() (Session, error)
}

// Session is the initialised service layer (COM on Windows).
type Session interface {
	Connect(ctx context.Context, t Target) (Conn, error)
	Close() error
}

// Conn is a connection to one namespace on one host.
type Conn interface {
	Query(ctx context.Context, wql string, opts QueryOptions) ([]Object, error)
	Close() error
}

// Target names the host and credentials to connect with. Empty User
// means the caller's own identity.
type Target struct {
	Host      string
	Namespace string
	User      string
	Password  string
}

// QueryOptions tunes a single query.
type QueryOptions struct {
	Top int // 0 = all objects
}

// Object is one WMI class instance.
type Object struct {
	Class      string     `json:"class" yaml:"class"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// Property is one named value of an Object.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

var cimTypeNames = map[int]string{
	2:   "sint16",
	3:   "sint32",
	4:   "real32",
	5:   "real64",
	8:   "string",
	11:  "boolean",
	13:  "object",
	16:  "sint8",
	17:  "uint8",
	18:  "uint16",
	19:  "uint32",
	20:  "sint64",
	21:  "uint64",
	101: "datetime",
	102: "reference",
	103: "char16",
}

// CIMTypeName maps a CIMType code to its name. Array types carry the
// 0x2000 flag.
func CIMTypeName(code int) string {
	const arrayFlag = 0x2000
	suffix := ""
	if code&arrayFlag != 0 {
		code &^= arrayFlag
		suffix = "[]"
	}
	if name, ok := cimTypeNames[code]; ok {
		return name + suffix
	}
	return "cim(" + strconv.Itoa(code) + ")" + suffix
}
