package soa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID  string
	Val int
}

func newTestStore() *Store[string, record] {
	return New("test", func(r record) string { return r.ID })
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore()

	_, err := s.Get("absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOnMessageReplacesOnSameKey(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.OnMessage(record{ID: "a", Val: 1}))
	require.NoError(t, s.OnMessage(record{ID: "a", Val: 2}))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Val)
	assert.Equal(t, 1, s.Len())
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	s := newTestStore()

	var order []string
	s.AddListener(ListenerFunc[record](func(record) error {
		order = append(order, "first")
		return nil
	}))
	s.AddListener(ListenerFunc[record](func(record) error {
		order = append(order, "second")
		return nil
	}))

	require.NoError(t, s.OnMessage(record{ID: "a"}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestListenerErrorAbortsSiblings(t *testing.T) {
	s := newTestStore()
	boom := errors.New("boom")

	var secondRan bool
	s.AddListener(ListenerFunc[record](func(record) error { return boom }))
	s.AddListener(ListenerFunc[record](func(record) error {
		secondRan = true
		return nil
	}))

	err := s.OnMessage(record{ID: "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, secondRan)

	// 记录本身已写入，失败只影响通知链。
	_, err = s.Get("a")
	assert.NoError(t, err)
}

func TestMergingStoreFoldsExisting(t *testing.T) {
	s := NewMerging("merge", func(r record) string { return r.ID },
		func(existing, incoming record) record {
			incoming.Val += existing.Val
			return incoming
		})

	var seen []int
	s.AddListener(ListenerFunc[record](func(r record) error {
		seen = append(seen, r.Val)
		return nil
	}))

	require.NoError(t, s.OnMessage(record{ID: "a", Val: 3}))
	require.NoError(t, s.OnMessage(record{ID: "a", Val: 4}))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Val)
	// listeners observe the merged record, not the raw incoming one
	assert.Equal(t, []int{3, 7}, seen)
}

func TestPutDoesNotNotify(t *testing.T) {
	s := newTestStore()

	var notified bool
	s.AddListener(ListenerFunc[record](func(record) error {
		notified = true
		return nil
	}))

	s.Put(record{ID: "a", Val: 9})

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Val)
	assert.False(t, notified)
}

func TestRangeVisitsAllAndStopsEarly(t *testing.T) {
	s := newTestStore()
	s.Put(record{ID: "a", Val: 1})
	s.Put(record{ID: "b", Val: 2})
	s.Put(record{ID: "c", Val: 3})

	var keys []string
	s.Range(func(k string, _ record) bool {
		keys = append(keys, k)
		return true
	})
	assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)

	var visited int
	s.Range(func(string, record) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
