// Package history 为每个阶段落盘历史数据。
// 每个历史阶段持有自己的键值存储（保留每个键的最新记录）和一个
// 追加式 sink；上游每广播一条记录就追加一行。
package history

import (
	"time"

	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Sink 历史记录的持久化边界，每条记录调用一次。
type Sink interface {
	Persist(row []string) error
}

// MultiSink 把一条记录写入多个 sink，遇到第一个错误即停止。
type MultiSink []Sink

func (m MultiSink) Persist(row []string) error {
	for _, s := range m {
		if err := s.Persist(row); err != nil {
			return err
		}
	}
	return nil
}

// Service 一个阶段的历史数据服务。实现 soa.Listener[V]，
// 直接挂在产出该类型记录的阶段上。
type Service[V any] struct {
	store  *soa.Store[string, V]
	sink   Sink
	format func(V) []string
	now    func() time.Time
}

// NewService creates a historical stage. keyOf keys the retained
// latest-record store, format renders one persisted row.
func NewService[V any](name string, keyOf func(V) string, format func(V) []string, sink Sink) *Service[V] {
	return &Service[V]{
		store:  soa.New(name, keyOf),
		sink:   sink,
		format: format,
		now:    time.Now,
	}
}

// Get returns the latest retained record for a key.
func (s *Service[V]) Get(key string) (V, error) {
	return s.store.Get(key)
}

// ProcessAdd 保留最新记录并追加一行历史。
func (s *Service[V]) ProcessAdd(v V) error {
	s.store.Put(v)

	row := append([]string{s.now().Format("2006-01-02 15:04:05.000")}, s.format(v)...)
	return s.sink.Persist(row)
}
