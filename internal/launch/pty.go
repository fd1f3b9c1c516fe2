//go:build linux

package launch

import (
	"os"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// allocatePtys opens Conf.TTYCount pty pairs before fork, one of the
// pre-allocated ttys the child opens per spec.md §4.D step 4. Opening
// is embarrassingly parallel and side-effect isolated (each pty pair
// is independent), so it is the one place this spec's otherwise
// strictly two-process model reaches for a bounded worker group
// (SPEC_FULL.md §5).
func (h *Handler) allocatePtys() error {
	n := h.Conf.TTYCount
	if n <= 0 {
		n = 1
	}
	masters := make([]*os.File, n)
	slaves := make([]*os.File, n)

	g := new(errgroup.Group)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			m, s, err := pty.Open()
			if err != nil {
				return errkind.New(errkind.TTYFail, "allocate pty", err)
			}
			masters[i] = m
			slaves[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, m := range masters {
			if m != nil {
				m.Close()
			}
		}
		for _, s := range slaves {
			if s != nil {
				s.Close()
			}
		}
		return err
	}
	h.ttyMasters = masters
	h.ttySlaves = slaves
	return nil
}

// closePtys releases every master and slave; used on abort paths where
// nothing downstream still needs either end.
func (h *Handler) closePtys() {
	for _, m := range h.ttyMasters {
		m.Close()
	}
	h.closeSlaves()
}

// closeSlaves releases only the parent's copies of the slave ends,
// once the child has its own (inherited via ExtraFiles) — the masters
// stay open for the ttyrpc control socket to serve to the console
// proxy while the container runs.
func (h *Handler) closeSlaves() {
	for _, s := range h.ttySlaves {
		s.Close()
	}
	h.ttySlaves = nil
}
