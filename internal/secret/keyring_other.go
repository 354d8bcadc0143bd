//go:build !windows

package secret

func cleanValue(v string) string { return v }
