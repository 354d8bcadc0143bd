package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 1: 命令行错误（未知开关、缺少参数、未知命令）
	ExitUsage ExitCode = 1

	// 2: 配置/secret 错误
	ExitConfig ExitCode = 2

	// 3: WMI 会话或连接错误
	ExitConnect ExitCode = 3

	// 4: 查询执行错误
	ExitQuery ExitCode = 4

	// 5: 随程序分发的文件缺失
	ExitResource ExitCode = 5

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeParse, CodeDispatch:
		return ExitUsage
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretNotFound:
		return ExitConfig
	case CodeSessionFailed, CodeConnectFailed:
		return ExitConnect
	case CodeQueryFailed:
		return ExitQuery
	case CodeResourceMissing:
		return ExitResource
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
