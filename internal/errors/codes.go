package errors

// Code 是稳定错误码（字符串），供脚本与 agent 判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Command line
	CodeParse    Code = "WMICMD_PARSE"
	CodeDispatch Code = "WMICMD_DISPATCH"

	// Config / secrets
	CodeCfgNotFound    Code = "WMICMD_CFG_NOT_FOUND"
	CodeCfgInvalid     Code = "WMICMD_CFG_INVALID"
	CodeSecretNotFound Code = "WMICMD_SECRET_NOT_FOUND"

	// WMI
	CodeSessionFailed Code = "WMICMD_SESSION_FAILED"
	CodeConnectFailed Code = "WMICMD_CONNECT_FAILED"
	CodeQueryFailed   Code = "WMICMD_QUERY_FAILED"

	// Files the tool ships with (manual etc.)
	CodeResourceMissing Code = "WMICMD_RESOURCE_MISSING"

	// Internal
	CodeInternal Code = "WMICMD_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeParse,
		CodeDispatch,
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeSessionFailed,
		CodeConnectFailed,
		CodeQueryFailed,
		CodeResourceMissing,
		CodeInternal,
	}
}
