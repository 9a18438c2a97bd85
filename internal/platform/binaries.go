package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ResolverInstall is a located share code lookup tool: the runtime binary,
// the script it runs and the directory the process must start in.
type ResolverInstall struct {
	BinaryPath string
	ScriptPath string
	Dir        string
}

// LocateResolver checks that the runtime is on PATH (or an existing file) and
// that the script exists under dir. An empty script means the runtime is the
// tool itself.
func LocateResolver(runtime, dir, script string) (*ResolverInstall, error) {
	binary, err := exec.LookPath(runtime)
	if err != nil {
		return nil, fmt.Errorf("required dependency: '%s' not found in PATH", runtime)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver directory %s: %w", dir, err)
	}

	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("resolver directory not found: %s", absDir)
	}

	install := &ResolverInstall{BinaryPath: binary, Dir: absDir}

	if script != "" {
		scriptPath := script
		if !filepath.IsAbs(scriptPath) {
			scriptPath = filepath.Join(absDir, script)
		}
		if _, err := os.Stat(scriptPath); err != nil {
			return nil, fmt.Errorf("resolver script not found: %s", scriptPath)
		}
		install.ScriptPath = scriptPath
	}

	return install, nil
}

// Args returns the arguments placed before the resolver sub-command.
func (r *ResolverInstall) Args() []string {
	if r.ScriptPath == "" {
		return nil
	}
	return []string{r.ScriptPath}
}
