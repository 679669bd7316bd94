//go:build leaktests
// +build leaktests

package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherCloseLeavesNoGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	l := New([]string{root}, 11)
	w, err := NewWatcher(l)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	time.Sleep(50 * time.Millisecond)
}
