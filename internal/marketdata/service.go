package marketdata

import (
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Service 行情阶段：按产品键存储订单簿快照并向下游广播。
type Service struct {
	store *soa.Store[string, OrderBook]
	depth int
}

// NewService creates the market data stage with the configured book
// depth (levels per side).
func NewService(depth int) *Service {
	return &Service{
		store: soa.New("marketdata", func(b OrderBook) string { return b.Product.ID() }),
		depth: depth,
	}
}

// BookDepth returns the configured per-side depth.
func (s *Service) BookDepth() int { return s.depth }

// Get returns the current snapshot for a product.
func (s *Service) Get(productID string) (OrderBook, error) {
	return s.store.Get(productID)
}

// OnMessage 接收一份快照：整体替换该产品的旧快照并通知监听器。
func (s *Service) OnMessage(book OrderBook) error {
	return s.store.OnMessage(book)
}

// AddListener registers a downstream consumer of book snapshots.
func (s *Service) AddListener(l soa.Listener[OrderBook]) {
	s.store.AddListener(l)
}

// BestBidOffer returns the best bid and offer of the stored snapshot.
func (s *Service) BestBidOffer(productID string) (BidOffer, error) {
	book, err := s.store.Get(productID)
	if err != nil {
		return BidOffer{}, err
	}
	return book.BestBidOffer()
}

// AggregateDepth returns the stored snapshot aggregated by price level.
func (s *Service) AggregateDepth(productID string) (OrderBook, error) {
	book, err := s.store.Get(productID)
	if err != nil {
		return OrderBook{}, err
	}
	return book.AggregateDepth(), nil
}
