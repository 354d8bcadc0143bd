//go:build !windows

package wmi

import (
	"runtime"

	"github.com/zx06/wmicmd/internal/errors"
)

// DefaultProvider returns the platform provider. Outside Windows there is
// no WMI service, so acquisition always fails.
func DefaultProvider() Provider {
	return unsupportedProvider{}
}

type unsupportedProvider struct{}

func (unsupportedProvider) Acquire() (Session, error) {
	return nil, errors.New(errors.CodeSessionFailed, "WMI is only available on Windows",
		map[string]any{"os": runtime.GOOS})
}
