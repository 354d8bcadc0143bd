package wmi

import "github.com/zx06/wmicmd/internal/errors"

var errScopeClosed = errors.New(errors.CodeInternal, "wmi session scope already closed", nil)

func connectError(t Target, err error) error {
	return errors.Wrap(errors.CodeConnectFailed, "Failed to connect to '"+t.Host+"'",
		map[string]any{"host": t.Host, "namespace": t.Namespace}, err)
}

func queryError(host, wql string, err error) error {
	return errors.Wrap(errors.CodeQueryFailed, "Query failed on '"+host+"'",
		map[string]any{"host": host, "query": wql}, err)
}
