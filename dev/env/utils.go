package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const moduleName = "kamar-notices"

const statePrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)\s*$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == moduleName
}

// GetWorkspaceRoot walks up from `start` until it finds this module's go.mod.
func GetWorkspaceRoot(start string) (string, error) {
	currentdir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		parent := filepath.Dir(currentdir)
		if parent == currentdir {
			return "", os.ErrNotExist
		}
		currentdir = parent
	}
}

// ResolvePath expands a leading "<dev_state>" to <workspace root>/dev/.state,
// or to the user cache directory when not running inside the workspace.
// Other paths are returned unchanged.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, statePrefix) {
		return path, nil
	}

	var stateDir string
	root, err := GetWorkspaceRoot(".")
	if err == nil {
		stateDir = filepath.Join(root, "dev", ".state")
	} else if os.IsNotExist(err) {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(cache, moduleName)
	} else {
		return "", err
	}

	err = os.MkdirAll(stateDir, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimLeft(strings.TrimPrefix(path, statePrefix), `/\`)
	return filepath.Join(stateDir, filepath.FromSlash(subpath)), nil
}
