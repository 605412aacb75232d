// Package soa 提供管道各阶段共用的键值存储 + 监听器原语。
// 每个阶段持有一个 Store：按键插入或替换记录，并同步地把记录
// 推送给所有已注册的下游监听器。
package soa

import (
	"errors"
	"fmt"
)

// ErrNotFound 按键查找失败。
var ErrNotFound = errors.New("key not found")

// Listener receives every record accepted by a store, in registration
// order, synchronously. Returning an error aborts the remaining
// listeners of that cascade and propagates to the caller that
// triggered it; there is no isolation between siblings.
type Listener[V any] interface {
	ProcessAdd(v V) error
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc[V any] func(v V) error

func (f ListenerFunc[V]) ProcessAdd(v V) error { return f(v) }

// MergeFunc folds an existing record into an incoming one when the
// incoming record's key is already present. The returned value fully
// replaces the stored record.
type MergeFunc[V any] func(existing, incoming V) V

// Store 是泛型的 upsert-and-notify 存储。
// 键由 keyOf 从记录中提取；默认策略是整条替换，带 MergeFunc 的
// store（见 NewMerging）在键已存在时先合并再替换。
type Store[K comparable, V any] struct {
	name      string
	keyOf     func(V) K
	merge     MergeFunc[V]
	records   map[K]V
	listeners []Listener[V]
}

// New creates a replace-on-key store. name is used in error and log
// messages only.
func New[K comparable, V any](name string, keyOf func(V) K) *Store[K, V] {
	return &Store[K, V]{
		name:    name,
		keyOf:   keyOf,
		records: make(map[K]V),
	}
}

// NewMerging creates a store that merges into existing records instead
// of replacing them outright (the position store is the only user).
func NewMerging[K comparable, V any](name string, keyOf func(V) K, merge MergeFunc[V]) *Store[K, V] {
	s := New[K, V](name, keyOf)
	s.merge = merge
	return s
}

// Name returns the store's diagnostic name.
func (s *Store[K, V]) Name() string { return s.name }

// Len returns the number of stored records.
func (s *Store[K, V]) Len() int { return len(s.records) }

// Get returns the record stored under key, or ErrNotFound.
func (s *Store[K, V]) Get(key K) (V, error) {
	v, ok := s.records[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%s: %v: %w", s.name, key, ErrNotFound)
	}
	return v, nil
}

// OnMessage 接收一条记录：按键 upsert（或合并），随后按注册顺序
// 同步通知全部监听器。任何监听器报错都会中止后续通知并把错误
// 原样返回给触发方；记录本身保持已写入的状态。
func (s *Store[K, V]) OnMessage(v V) error {
	key := s.keyOf(v)
	stored := v
	if existing, ok := s.records[key]; ok && s.merge != nil {
		stored = s.merge(existing, v)
	}
	s.records[key] = stored

	for _, l := range s.listeners {
		if err := l.ProcessAdd(stored); err != nil {
			return fmt.Errorf("%s: listener: %w", s.name, err)
		}
	}
	return nil
}

// Put upserts a record without notifying listeners. The inquiry reject
// path is the only mutation in the pipeline that stays silent.
func (s *Store[K, V]) Put(v V) {
	s.records[s.keyOf(v)] = v
}

// AddListener appends a listener. Registration happens once during
// pipeline assembly; there is no removal and no deduplication.
func (s *Store[K, V]) AddListener(l Listener[V]) {
	s.listeners = append(s.listeners, l)
}

// Range calls fn for every stored record until fn returns false.
// Iteration order is unspecified.
func (s *Store[K, V]) Range(fn func(key K, v V) bool) {
	for k, v := range s.records {
		if !fn(k, v) {
			return
		}
	}
}
