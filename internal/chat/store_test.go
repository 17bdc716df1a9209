package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestStore_CreateAndGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(24*time.Hour, clock.Now)

	store.Create("abc", "Hello world", "notes.txt")

	session, ok := store.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "Hello world", session.DocumentText)
	assert.Equal(t, "notes.txt", session.Filename)
	assert.Equal(t, 0, session.QuestionsAsked)
	assert.Equal(t, clock.now, session.CreatedAt)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore(24*time.Hour, nil)
	store.Create("abc", "original", "doc.txt")

	session, _ := store.Get("abc")
	session.DocumentText = "mutated"
	session.QuestionsAsked = 99

	fresh, _ := store.Get("abc")
	assert.Equal(t, "original", fresh.DocumentText)
	assert.Equal(t, 0, fresh.QuestionsAsked)
}

func TestStore_IncrementQuestions(t *testing.T) {
	store := NewStore(24*time.Hour, nil)
	store.Create("abc", "doc", "doc.txt")

	for i := 1; i <= 3; i++ {
		count, ok := store.IncrementQuestions("abc", 3)
		require.True(t, ok)
		assert.Equal(t, i, count)
	}

	// At the maximum the counter must not move
	_, ok := store.IncrementQuestions("abc", 3)
	assert.False(t, ok)

	session, _ := store.Get("abc")
	assert.Equal(t, 3, session.QuestionsAsked)

	_, ok = store.IncrementQuestions("missing", 3)
	assert.False(t, ok)
}

func TestStore_IncrementQuestionsConcurrent(t *testing.T) {
	store := NewStore(24*time.Hour, nil)
	store.Create("abc", "doc", "doc.txt")

	const max = 10
	var wg sync.WaitGroup
	var granted atomic.Int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.IncrementQuestions("abc", max); ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	// The counter lands exactly on the quota, never past it
	assert.Equal(t, int64(max), granted.Load())
	session, _ := store.Get("abc")
	assert.Equal(t, max, session.QuestionsAsked)
}

func TestStore_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(24*time.Hour, clock.Now)

	store.Create("abc", "doc", "doc.txt")
	session, _ := store.Get("abc")
	assert.False(t, store.Expired(session))

	clock.Advance(24 * time.Hour)
	session, _ = store.Get("abc")
	assert.False(t, store.Expired(session), "exactly 24h old is still live")

	clock.Advance(time.Minute)
	session, _ = store.Get("abc")
	assert.True(t, store.Expired(session))
}

func TestStore_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(24*time.Hour, clock.Now)

	store.Create("old", "doc", "old.txt")
	clock.Advance(25 * time.Hour)
	store.Create("fresh", "doc", "fresh.txt")

	removed := store.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}
