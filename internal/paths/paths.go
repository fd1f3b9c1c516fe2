// Package paths resolves the on-disk location of container state:
// the LXCPATH environment override and the compiled default, per
// SPEC_FULL.md §6 "Persistent state".
package paths

import (
	"os"
	"path/filepath"
)

// DefaultLXCPath is the compile-time fallback base directory used
// when LXCPATH is unset.
const DefaultLXCPath = "/var/lib/golxc"

// LXCPath returns the effective base directory for container state.
func LXCPath() string {
	if p := os.Getenv("LXCPATH"); p != "" {
		return p
	}
	return DefaultLXCPath
}

// ContainerDir returns the per-container directory under the
// effective LXCPath.
func ContainerDir(name string) string {
	return filepath.Join(LXCPath(), name)
}

// ConfigFile returns the path to a container's config file.
func ConfigFile(name string) string {
	return filepath.Join(ContainerDir(name), "config")
}

// MountFile returns the path to a container's optional mount table file.
func MountFile(name string) string {
	return filepath.Join(ContainerDir(name), "mount")
}

// RunDir returns the runtime nonce directory for one launch attempt,
// named by a caller-supplied nonce (a uuid in internal/launch).
func RunDir(name, nonce string) string {
	return filepath.Join(ContainerDir(name), "run", nonce)
}
