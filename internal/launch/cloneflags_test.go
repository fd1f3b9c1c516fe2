//go:build linux

package launch

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihalicyn/golxc/internal/lxcconf"
)

func TestComputeCloneFlagsDefaultExcludesUserNS(t *testing.T) {
	h := &Handler{Conf: lxcconf.NewDefault("test")}
	flags := h.computeCloneFlags()
	require.NotZero(t, flags&syscall.CLONE_NEWNET)
	require.Zero(t, flags&syscall.CLONE_NEWUSER)
}

func TestComputeCloneFlagsWithUserNS(t *testing.T) {
	conf := lxcconf.NewDefault("test")
	conf.UserNS = true
	h := &Handler{Conf: conf}
	flags := h.computeCloneFlags()
	require.NotZero(t, flags&syscall.CLONE_NEWUSER)
}
