package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/wmicmd/internal/app"
	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/secret"
	"github.com/zx06/wmicmd/internal/wmi"
)

// QueryInput represents the input for the query tool
type QueryInput struct {
	Query     string   `json:"query"`
	Hosts     []string `json:"hosts,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Top       int      `json:"top,omitempty"`
	Profile   string   `json:"profile,omitempty"`
}

// ProfileShowInput represents the input for the profile_show tool
type ProfileShowInput struct {
	Name string `json:"name" jsonschema:"Profile name"`
}

// ToolHandler manages MCP tools
type ToolHandler struct {
	config  *config.File
	session func() (wmi.Session, error)
	keyring secret.KeyringAPI
	logger  *slog.Logger

	// defaultProfile is used when a query names no profile; falls back
	// to profiles.default.
	defaultProfile string
}

// NewToolHandler creates a new tool handler. session is called on the
// first query, so a server that only lists profiles never touches WMI.
func NewToolHandler(cfg *config.File, session func() (wmi.Session, error), logger *slog.Logger) *ToolHandler {
	if cfg == nil {
		cfg = &config.File{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ToolHandler{config: cfg, session: session, logger: logger}
}

// getProfileNames returns the profile names in sorted order
func (h *ToolHandler) getProfileNames() []string {
	names := make([]string, 0, len(h.config.Profiles))
	for name := range h.config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	profileNames := h.getProfileNames()
	profileEnums := make([]any, len(profileNames))
	for i, name := range profileNames {
		profileEnums[i] = name
	}

	profileSchema := &jsonschema.Schema{
		Type:        "string",
		Description: "Profile supplying hosts, credentials and namespace defaults",
	}
	if len(profileEnums) > 0 {
		profileSchema.Enum = profileEnums
	}
	minTop := 1.0
	querySchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"query"},
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: "WQL query, e.g. SELECT Name, State FROM Win32_Service",
			},
			"hosts": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "Hosts to query; defaults to the profile hosts, else the local machine",
			},
			"namespace": {
				Type:        "string",
				Description: `WMI namespace; default root\cimv2`,
			},
			"top": {
				Type:        "integer",
				Minimum:     &minTop,
				Description: "Return at most this many objects per host",
			},
			"profile": profileSchema,
		},
	}
	server.AddTool(&mcp.Tool{
		Name:        "query",
		Description: "Run a WQL query against one or more hosts",
		InputSchema: querySchema,
	}, h.queryHandler)

	mcp.AddTool[struct{}, any](server, &mcp.Tool{
		Name:        "profile_list",
		Description: "List all configured profiles",
	}, h.ProfileList)

	nameSchema := &jsonschema.Schema{Type: "string", Description: "Profile name"}
	if len(profileEnums) > 0 {
		nameSchema.Enum = profileEnums
	}
	profileShowSchema := &jsonschema.Schema{
		Type:       "object",
		Required:   []string{"name"},
		Properties: map[string]*jsonschema.Schema{"name": nameSchema},
	}
	server.AddTool(&mcp.Tool{
		Name:        "profile_show",
		Description: "Show profile details",
		InputSchema: profileShowSchema,
	}, h.profileShowHandler)
}

// queryHandler is the raw handler for query tool
func (h *ToolHandler) queryHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input QueryInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Query(ctx, req, input)
	return result, err
}

// profileShowHandler is the raw handler for profile_show tool
func (h *ToolHandler) profileShowHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ProfileShowInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.ProfileShow(ctx, req, input)
	return result, err
}

// Query runs a WQL query. Per-host failures are reported inside the
// result; the call itself is an error only when every host failed.
func (h *ToolHandler) Query(ctx context.Context, req *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return errorResult(errors.New(errors.CodeCfgInvalid, "query is required", nil)), nil, nil
	}
	if input.Top < 0 {
		return errorResult(errors.New(errors.CodeCfgInvalid, "top must be at least 1", map[string]any{"top": input.Top})), nil, nil
	}

	var profile config.Profile
	if name := firstNonEmpty(input.Profile, h.defaultProfile); name != "" {
		p, ok := h.config.Profiles[name]
		if !ok {
			return errorResult(errors.New(errors.CodeCfgInvalid, "profile does not exist",
				map[string]any{"name": name, "reason": "profile_not_found"})), nil, nil
		}
		profile = p
	} else if p, ok := h.config.Profiles["default"]; ok {
		profile = p
	}

	targets, xe := app.ResolveTargets(app.TargetOptions{
		Hosts:     input.Hosts,
		Namespace: input.Namespace,
		Profile:   profile,
		Keyring:   h.keyring,
	})
	if xe != nil {
		return errorResult(xe), nil, nil
	}

	if h.session == nil {
		return errorResult(errors.New(errors.CodeSessionFailed, "no wmi session available", nil)), nil, nil
	}
	sess, err := h.session()
	if err != nil {
		return errorResult(err), nil, nil
	}

	top := input.Top
	if top == 0 {
		top = profile.Top
	}
	h.logger.Debug("mcp query", "hosts", len(targets))
	results, last := app.RunQueries(ctx, sess, targets, input.Query, wmi.QueryOptions{Top: top}, h.logger)
	if last != nil && allFailed(results) {
		return errorResult(last), nil, nil
	}
	return okResult(results), nil, nil
}

// ProfileList lists all profiles
func (h *ToolHandler) ProfileList(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return okResult(map[string]any{"profiles": config.ListProfiles(*h.config)}), nil, nil
}

// ProfileShow shows profile details with the password redacted
func (h *ToolHandler) ProfileShow(ctx context.Context, req *mcp.CallToolRequest, input ProfileShowInput) (*mcp.CallToolResult, any, error) {
	profile, ok := h.config.Profiles[input.Name]
	if !ok {
		return errorResult(errors.New(errors.CodeCfgInvalid, "profile does not exist",
			map[string]any{"name": input.Name, "reason": "profile_not_found"})), nil, nil
	}
	return okResult(config.ShowProfile(input.Name, profile)), nil, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func allFailed(results []output.HostResult) bool {
	for _, r := range results {
		if r.Error == "" {
			return false
		}
	}
	return true
}

func okResult(data any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(output.OK(data), "", "  ")
	if err != nil {
		return errorResult(errors.Wrap(errors.CodeInternal, "failed to marshal result", nil, err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonData)},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatError(err)},
		},
	}
}

// formatError formats an error as a JSON envelope
func formatError(err error) string {
	var xe *errors.XError
	if err != nil {
		xe = errors.AsOrWrap(err)
	} else {
		xe = errors.New(errors.CodeInternal, "unknown error", nil)
	}
	jsonData, _ := json.MarshalIndent(output.Failed(xe, xe.Describe()), "", "  ")
	return string(jsonData)
}

// ServerOptions configures CreateServer.
type ServerOptions struct {
	Name           string
	Version        string
	Config         *config.File
	DefaultProfile string
	Session        func() (wmi.Session, error)
	Logger         *slog.Logger
}

// CreateServer creates a new MCP server
func CreateServer(opts ServerOptions) (*mcp.Server, error) {
	if opts.Name == "" {
		opts.Name = "wmicmd"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    opts.Name,
		Version: opts.Version,
	}, nil)

	handler := NewToolHandler(opts.Config, opts.Session, opts.Logger)
	handler.defaultProfile = opts.DefaultProfile
	handler.RegisterTools(server)

	return server, nil
}
