// Package position 维护跨账本的净头寸。
// 每笔成交折算成带符号的数量增量（BUY 为正，SELL 为负），先构造
// 只含该账本增量的新头寸，再把已有头寸逐账本合并进来；合并结果
// 整体替换存储槽位，账本级数量因此跨调用正确累加。
package position

import (
	"sort"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Position 某只产品在各账本上的带符号数量。
type Position struct {
	Product refdata.Bond
	Books   map[string]int64
}

// NewPosition creates an empty position for a product.
func NewPosition(product refdata.Bond) Position {
	return Position{Product: product, Books: make(map[string]int64)}
}

// Add accumulates a signed quantity into one book.
func (p Position) Add(book string, quantity int64) {
	p.Books[book] += quantity
}

// Quantity returns the signed quantity held in one book.
func (p Position) Quantity(book string) int64 {
	return p.Books[book]
}

// Aggregate 所有账本数量之和。
func (p Position) Aggregate() int64 {
	var total int64
	for _, q := range p.Books {
		total += q
	}
	return total
}

// BookNames returns the books with a recorded quantity, sorted.
func (p Position) BookNames() []string {
	names := make([]string, 0, len(p.Books))
	for b := range p.Books {
		names = append(names, b)
	}
	sort.Strings(names)
	return names
}

// Service 头寸阶段。
type Service struct {
	store *soa.Store[string, Position]
}

// NewService creates the position stage with the accumulating merge
// strategy: existing book quantities fold into the incoming record.
func NewService() *Service {
	return &Service{
		store: soa.NewMerging("position",
			func(p Position) string { return p.Product.ID() },
			mergePositions),
	}
}

func mergePositions(existing, incoming Position) Position {
	merged := NewPosition(incoming.Product)
	for book, qty := range incoming.Books {
		merged.Add(book, qty)
	}
	for book, qty := range existing.Books {
		merged.Add(book, qty)
	}
	return merged
}

// Get returns the current position for a product.
func (s *Service) Get(productID string) (Position, error) {
	return s.store.Get(productID)
}

// Products returns the ids of all products with a position, sorted.
func (s *Service) Products() []string {
	var ids []string
	s.store.Range(func(id string, _ Position) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids
}

// AddListener registers a downstream consumer of position updates.
func (s *Service) AddListener(l soa.Listener[Position]) {
	s.store.AddListener(l)
}

// AddTrade 由成交入账触发：构造该笔成交的单账本头寸并送入存储，
// 合并后的头寸广播给下游（风险、历史）。
func (s *Service) AddTrade(t tradebooking.Trade) error {
	delta := t.Quantity
	if t.Side == tradebooking.Sell {
		delta = -delta
	}

	fresh := NewPosition(t.Product)
	fresh.Add(t.Book, delta)
	return s.store.OnMessage(fresh)
}

// Listener 把成交入账阶段接到头寸阶段上。
func (s *Service) Listener() soa.Listener[tradebooking.Trade] {
	return soa.ListenerFunc[tradebooking.Trade](s.AddTrade)
}
