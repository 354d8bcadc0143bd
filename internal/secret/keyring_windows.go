//go:build windows

package secret

import "strings"

// cmdkey 写入的凭据是按字节存放的 UTF-16，读回时字符之间夹着 NUL。
func cleanValue(v string) string {
	return strings.ReplaceAll(v, "\x00", "")
}
