// Package gui 提供限流的价格快照输出：订阅价格流，按最小间隔
// 采样写出，达到最大条数后停止。
package gui

import (
	"time"

	"github.com/wyfcoding/bondtrading/internal/pricing"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Sink 快照输出边界，与历史阶段的 sink 形状一致。
type Sink interface {
	Persist(row []string) error
}

// Service 价格快照服务。保留每只产品的最新快照，并把通过
// 限流的更新逐条写入 sink。
type Service struct {
	store      *soa.Store[string, pricing.Price]
	sink       Sink
	interval   time.Duration
	maxUpdates int

	now      func() time.Time
	lastEmit time.Time
	emitted  int
}

// NewService creates the snapshot stage. interval is the minimum gap
// between persisted updates, maxUpdates caps the total written.
func NewService(sink Sink, interval time.Duration, maxUpdates int) *Service {
	return &Service{
		store:      soa.New("gui", func(p pricing.Price) string { return p.Product.ID() }),
		sink:       sink,
		interval:   interval,
		maxUpdates: maxUpdates,
		now:        time.Now,
	}
}

// Get returns the latest retained snapshot for a product.
func (s *Service) Get(cusip string) (pricing.Price, error) {
	return s.store.Get(cusip)
}

// Emitted 已写出的更新条数。
func (s *Service) Emitted() int {
	return s.emitted
}

// ProcessAdd 保留快照；未到采样间隔或已达上限的更新只留不写。
func (s *Service) ProcessAdd(p pricing.Price) error {
	s.store.Put(p)

	if s.emitted >= s.maxUpdates {
		return nil
	}
	ts := s.now()
	if !s.lastEmit.IsZero() && ts.Sub(s.lastEmit) < s.interval {
		return nil
	}

	row := []string{
		ts.Format("2006-01-02 15:04:05.000"),
		p.Product.CUSIP,
		bondprice.Format(p.Mid),
		p.Spread.String(),
	}
	if err := s.sink.Persist(row); err != nil {
		return err
	}
	s.lastEmit = ts
	s.emitted++
	return nil
}

// Listener adapts the service onto the pricing stage.
func (s *Service) Listener() soa.Listener[pricing.Price] {
	return s
}

var _ soa.Listener[pricing.Price] = (*Service)(nil)
