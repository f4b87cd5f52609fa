package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/game/src/main.js")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/game/src/main.js"}, receivedPaths)
	})
}

func TestDebouncer_Add_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/game/src/player.js")
		d.Add("/game/src/main.js")
		d.Add("/game/src/player.js")
		d.Add("/game/src/enemy.js")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/game/src/enemy.js", "/game/src/main.js", "/game/src/player.js"}, receivedPaths)
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/game/src/a.js")
		time.Sleep(50 * time.Millisecond)
		d.Add("/game/src/b.js")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 0, callCount)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 1, callCount)
		mu.Unlock()
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var receivedPaths []string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			receivedPaths = paths
		})

		d.Add("/game/static/index.html")
		d.Flush()

		assert.Equal(t, []string{"/game/static/index.html"}, receivedPaths)

		// The stopped timer must not fire again.
		receivedPaths = nil
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Nil(t, receivedPaths)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int
	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()
	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/game/src/main.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Cancel_DropsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/game/src/main.js")
		d.Cancel()

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, callCount)

		d.Flush()
		assert.Equal(t, 0, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/game/src/main.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("/game/src/main.js")
		d.Flush()
	})
}
