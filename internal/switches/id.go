package switches

import "strconv"

// ID identifies a recognised switch. Values are shared by every table in
// the process, so code tests "is X set" by ID and never by spelling.
type ID int

const (
	Usage     ID = 0  // Show the options syntax.
	Version   ID = 1  // Show the program version and copyright.
	Hostnames ID = 2  // The hostnames to run the query on.
	User      ID = 3  // The login name to use for remote hosts.
	Password  ID = 4  // The password to use for remote hosts.
	ShowHost  ID = 5  // Repeat the hostname in the output.
	ShowTypes ID = 6  // Display the CIM type of the property values.
	NoFormat  ID = 7  // Display raw values instead of formatting them.
	Align     ID = 8  // Align the output.
	HostsFile ID = 9  // The file with a list of hostnames.
	Top       ID = 10 // Only show the first N items.

	Format        ID = 11 // Output format.
	Namespace     ID = 12 // WMI namespace to connect to.
	Config        ID = 13 // Profiles file path.
	Profile       ID = 14 // Profile name.
	Verbose       ID = 15 // Debug logging on stderr.
	Transport     ID = 16 // MCP transport.
	HTTPAddr      ID = 17 // MCP HTTP listen address.
	HTTPAuthToken ID = 18 // MCP HTTP bearer token.

	Manual ID = 99 // Show the manual.
)

var idNames = map[ID]string{
	Usage:         "usage",
	Version:       "version",
	Hostnames:     "hostnames",
	User:          "user",
	Password:      "password",
	ShowHost:      "show-host",
	ShowTypes:     "show-types",
	NoFormat:      "no-format",
	Align:         "align",
	HostsFile:     "hosts-file",
	Top:           "top",
	Format:        "format",
	Namespace:     "namespace",
	Config:        "config",
	Profile:       "profile",
	Verbose:       "verbose",
	Transport:     "transport",
	HTTPAddr:      "http-addr",
	HTTPAuthToken: "http-auth-token",
	Manual:        "manual",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return "switch(" + strconv.Itoa(int(id)) + ")"
}
