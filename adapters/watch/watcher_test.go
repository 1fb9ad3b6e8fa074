package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "quant.csv")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("sample,m_1\n"), 0o644))

	w, err := NewWatcher(internal.NewNopLogger(), 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var calls int32
	require.NoError(t, w.Watch([]string{target}, func() { atomic.AddInt32(&calls, 1) }))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("sample,m_1\ns1,1\n"), 0o644))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
