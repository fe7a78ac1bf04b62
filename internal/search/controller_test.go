package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Navigation(t *testing.T) {
	c := NewController(20)
	assert.Equal(t, PageHome, c.Page())

	c.NavigateTo("s3", "Performance", "chunk_size")
	assert.Equal(t, PageOptions, c.Page())
	assert.Equal(t, "s3", c.Service())
	assert.Equal(t, "Performance", c.Category())

	target, ok := c.FocusTarget()
	require.True(t, ok)
	assert.Equal(t, "chunk_size", target)

	c.ClearFocus()
	_, ok = c.FocusTarget()
	assert.False(t, ok)

	c.Home()
	assert.Equal(t, PageHome, c.Page())
	assert.Empty(t, c.Service())
	assert.Empty(t, c.Category())
}

func TestController_NavigateToEmptyServiceGoesHome(t *testing.T) {
	c := NewController(20)
	c.NavigateTo("s3", "Performance", "")
	c.NavigateTo("", "", "")
	assert.Equal(t, PageHome, c.Page())
}

func TestController_NavigationClearsQuery(t *testing.T) {
	c := NewController(20)
	c.SetQuery("chunk")
	c.NavigateTo("s3", "Performance", "")
	assert.Empty(t, c.Query(), "opening a page leaves search mode")
}

func TestController_SetQueryResetsWindow(t *testing.T) {
	c := NewController(5)
	c.ScrollWindow(10, 100)

	start, _ := c.Window(100)
	require.Equal(t, 10, start)

	c.SetQuery("chunk")
	start, end := c.Window(100)
	assert.Equal(t, 0, start, "query changes snap the window to the top")
	assert.Equal(t, 5, end)

	// setting the identical query keeps the window in place
	c.ScrollWindow(3, 100)
	c.SetQuery("chunk")
	start, _ = c.Window(100)
	assert.Equal(t, 3, start)
}

func TestWindow_Bounds(t *testing.T) {
	c := NewController(10)

	start, end := c.Window(4)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end, "window never exceeds the list")

	start, end = c.Window(25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	start, end = c.Window(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestWindow_ScrollClamped(t *testing.T) {
	c := NewController(10)

	c.ScrollWindow(-5, 25)
	start, _ := c.Window(25)
	assert.Equal(t, 0, start, "scrolling above the top clamps to zero")

	c.ScrollWindow(100, 25)
	start, end := c.Window(25)
	assert.Equal(t, 15, start, "scrolling past the end clamps to the last page")
	assert.Equal(t, 25, end)
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	db := NewDebouncer(20 * time.Millisecond)
	defer db.Stop()

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		db.Trigger(func() { runs.Add(1) })
	}

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 5*time.Millisecond, "a burst of triggers runs once")

	// stays at one after the quiet period
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	db := NewDebouncer(20 * time.Millisecond)

	var runs atomic.Int32
	db.Trigger(func() { runs.Add(1) })
	db.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "stopped debouncer never fires")
}

func TestNewDebouncer_DefaultPeriod(t *testing.T) {
	db := NewDebouncer(0)
	assert.Equal(t, DefaultDebounce, db.d)
}
