package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// windowsEnvRef matches a %NAME% reference, as cmd.exe writes them.
var windowsEnvRef = regexp.MustCompile(`%[A-Za-z_][A-Za-z0-9_()]*%`)

// resolvePath turns a configured path into an absolute one. A leading ~ and
// any $VAR (or %VAR% on Windows) references are expanded first; a path that
// is still relative is taken relative to base, or to the working directory
// when base is empty.
func resolvePath(p, base string) (string, error) {
	p = expandHome(expandEnv(strings.TrimSpace(p)))
	if p == "" {
		return "", nil
	}
	if !filepath.IsAbs(p) && base != "" {
		p = filepath.Join(base, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return abs, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// expandEnv substitutes environment references. Unset %VAR% references are
// left as written so the mistake shows up in the resulting path.
func expandEnv(p string) string {
	p = os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return p
	}
	return windowsEnvRef.ReplaceAllStringFunc(p, func(ref string) string {
		if val, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
			return val
		}
		return ref
	})
}
