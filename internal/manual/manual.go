// Package manual finds the manual shipped next to the executable and
// hands it to the platform document viewer.
package manual

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/zx06/wmicmd/internal/errors"
)

// Extensions in lookup order.
var Extensions = []string{".mht", ".html"}

// Viewer displays a document.
type Viewer interface {
	Open(path string) error
}

// Find returns the first existing "<name><ext>" in dir. When nothing is
// found the error is CodeResourceMissing and names the last candidate.
func Find(dir, name string) (string, error) {
	var path string
	for _, ext := range Extensions {
		path = filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.New(errors.CodeResourceMissing, "Manual missing - '"+path+"'", map[string]any{"path": path})
}

// ExecutableDir is the directory of the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// SystemViewer opens documents with the desktop's default handler.
type SystemViewer struct{}

func (SystemViewer) Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to start document viewer", map[string]any{"path": path}, err)
	}
	return cmd.Process.Release()
}
