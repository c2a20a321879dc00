package typewriter

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run feeds ticks back into s until the reveal stops scheduling.
func run(t *testing.T, s *Scheduler, cmd tea.Cmd) int {
	t.Helper()
	ticks := 0
	for cmd != nil {
		ticks++
		require.Less(t, ticks, 1000, "reveal did not terminate")
		cmd = s.Update(cmd())
	}
	return ticks
}

func TestScheduler_RevealsAllWords(t *testing.T) {
	s := New(time.Millisecond)

	ticks := run(t, s, s.Start("a b c"))

	assert.Equal(t, 3, ticks)
	assert.Equal(t, "a b c ", s.Text())
	assert.True(t, s.Done())
}

func TestScheduler_StopsAfterLastWord(t *testing.T) {
	s := New(time.Millisecond)
	cmd := s.Start("one")

	msg := cmd()
	assert.Nil(t, s.Update(msg))
	assert.Equal(t, "one ", s.Text())

	// A duplicate tick must not emit anything further.
	assert.Nil(t, s.Update(msg))
	assert.Equal(t, "one ", s.Text())
}

func TestScheduler_ProgressiveText(t *testing.T) {
	s := New(time.Millisecond)
	cmd := s.Start("hello big world")
	assert.Equal(t, "", s.Text())
	assert.False(t, s.Done())

	cmd = s.Update(cmd())
	assert.Equal(t, "hello ", s.Text())
	cmd = s.Update(cmd())
	assert.Equal(t, "hello big ", s.Text())
	require.NotNil(t, cmd)
}

func TestScheduler_RestartCancelsPrevious(t *testing.T) {
	s := New(time.Millisecond)
	first := s.Start("old text here")
	stale := first()

	second := s.Start("new")

	assert.Nil(t, s.Update(stale), "stale tick must be dropped")
	assert.Equal(t, "", s.Text())

	run(t, s, second)
	assert.Equal(t, "new ", s.Text())
}

func TestScheduler_KeepsLineBreaks(t *testing.T) {
	s := New(time.Millisecond)
	run(t, s, s.Start("# Title\n\nBody text"))
	assert.Equal(t, "# Title\n\nBody text ", s.Text())
}

func TestScheduler_EmptyText(t *testing.T) {
	s := New(time.Millisecond)
	assert.Nil(t, s.Start(""))
	assert.Equal(t, "", s.Text())
	assert.True(t, s.Done())
}

func TestScheduler_RevealCancels(t *testing.T) {
	s := New(time.Millisecond)
	cmd := s.Start("a b c")
	pending := cmd()

	s.Reveal("full text")
	assert.Nil(t, s.Update(pending))
	assert.Equal(t, "full text", s.Text())
	assert.True(t, s.Done())
}

func TestScheduler_IgnoresOtherSchedulers(t *testing.T) {
	a := New(time.Millisecond)
	b := New(time.Millisecond)

	cmdA := a.Start("x y")
	b.Start("p q")

	assert.Nil(t, b.Update(cmdA()))
	assert.Equal(t, "", b.Text())
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval)
}
