// Package pricing 管理参考价格：每只产品一条当前价，后到整体覆盖。
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Price 某只产品的中间价与买卖价差。
type Price struct {
	Product refdata.Bond
	Mid     decimal.Decimal
	Spread  decimal.Decimal
}

// Bid returns mid − spread/2.
func (p Price) Bid() decimal.Decimal {
	return p.Mid.Sub(p.Spread.Div(decimal.NewFromInt(2)))
}

// Offer returns mid + spread/2.
func (p Price) Offer() decimal.Decimal {
	return p.Mid.Add(p.Spread.Div(decimal.NewFromInt(2)))
}

// Service 价格阶段。
type Service struct {
	store *soa.Store[string, Price]
}

// NewService creates the pricing stage.
func NewService() *Service {
	return &Service{
		store: soa.New("pricing", func(p Price) string { return p.Product.ID() }),
	}
}

// Get returns the current price for a product.
func (s *Service) Get(productID string) (Price, error) {
	return s.store.Get(productID)
}

// OnMessage 接收一条价格：覆盖旧值并通知监听器。
func (s *Service) OnMessage(p Price) error {
	return s.store.OnMessage(p)
}

// AddListener registers a downstream consumer of price updates.
func (s *Service) AddListener(l soa.Listener[Price]) {
	s.store.AddListener(l)
}
