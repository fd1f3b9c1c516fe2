//go:build linux

package syncchan

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBarrierComposition(t *testing.T) {
	pair, err := New()
	require.NoError(t, err)

	parent := NewEndpoint(pair.ParentEnd)
	child := NewEndpoint(pair.ChildEnd)

	var wg sync.WaitGroup
	wg.Add(2)

	var parentErr, childErr error
	go func() {
		defer wg.Done()
		parentErr = parent.Barrier(PostConfigure)
	}()
	go func() {
		defer wg.Done()
		// Child side sees the same step number from the other end.
		childErr = child.Wait(PostConfigure)
		if childErr == nil {
			childErr = child.Wake(PostConfigure + 1)
		}
	}()
	wg.Wait()

	require.NoError(t, parentErr)
	require.NoError(t, childErr)
}

func TestWaitDetectsDesync(t *testing.T) {
	pair, err := New()
	require.NoError(t, err)
	parent := NewEndpoint(pair.ParentEnd)
	child := NewEndpoint(pair.ChildEnd)

	require.NoError(t, child.Wake(99))
	err = parent.Wait(1)
	require.Error(t, err)
}

func TestWaitDetectsPeerAbort(t *testing.T) {
	pair, err := New()
	require.NoError(t, err)
	parent := NewEndpoint(pair.ParentEnd)
	child := NewEndpoint(pair.ChildEnd)

	require.NoError(t, child.Abort())
	err = parent.Wait(PostConfigure)
	require.Error(t, err)
}

func TestWaitTreatsCleanCloseAsSuccess(t *testing.T) {
	pair, err := New()
	require.NoError(t, err)
	parent := NewEndpoint(pair.ParentEnd)
	child := NewEndpoint(pair.ChildEnd)

	require.NoError(t, child.Close())
	err = parent.Wait(PostStart)
	require.NoError(t, err)
}
