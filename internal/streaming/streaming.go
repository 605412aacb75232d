// Package streaming 对外发布双边报价流（price stream）。
// 本阶段不做计算：收到上游构造好的报价后原样转发给监听器。
package streaming

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// PriceStreamOrder 报价流中的一侧：价格、可见/隐藏数量、方向。
type PriceStreamOrder struct {
	Price           decimal.Decimal
	VisibleQuantity int64
	HiddenQuantity  int64
	Side            marketdata.PricingSide
}

// PriceStream 某只产品的双边报价，每次价格更新整体重算。
type PriceStream struct {
	Product refdata.Bond
	Bid     PriceStreamOrder
	Offer   PriceStreamOrder
}

// Service 报价发布阶段。
type Service struct {
	store *soa.Store[string, PriceStream]
}

// NewService creates the streaming stage.
func NewService() *Service {
	return &Service{
		store: soa.New("streaming", func(ps PriceStream) string { return ps.Product.ID() }),
	}
}

// Get returns the last published stream for a product.
func (s *Service) Get(productID string) (PriceStream, error) {
	return s.store.Get(productID)
}

// PublishPrice 存储并转发一条报价。
func (s *Service) PublishPrice(ps PriceStream) error {
	return s.store.OnMessage(ps)
}

// AddListener registers a downstream consumer of published streams.
func (s *Service) AddListener(l soa.Listener[PriceStream]) {
	s.store.AddListener(l)
}
