// Package tradebooking 负责成交入账：按成交 ID 累积所有成交，
// 并把执行订单转换为成交（booking bridge）。
package tradebooking

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/execution"
	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Side 成交方向
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Trade 一条成交记录，按成交 ID 唯一。
type Trade struct {
	Product  refdata.Bond
	TradeID  string
	Price    decimal.Decimal
	Book     string
	Quantity int64
	Side     Side
}

// 轮转使用的三个内部账本。
var books = [3]string{"TRSY1", "TRSY2", "TRSY3"}

// Service 成交入账阶段。
type Service struct {
	store *soa.Store[string, Trade]
}

// NewService creates the trade booking stage.
func NewService() *Service {
	return &Service{
		store: soa.New("tradebooking", func(t Trade) string { return t.TradeID }),
	}
}

// Get returns a booked trade by trade id.
func (s *Service) Get(tradeID string) (Trade, error) {
	return s.store.Get(tradeID)
}

// BookTrade 入账一条成交并通知下游（头寸净额）。
func (s *Service) BookTrade(t Trade) error {
	return s.store.OnMessage(t)
}

// AddListener registers a downstream consumer of booked trades.
func (s *Service) AddListener(l soa.Listener[Trade]) {
	s.store.AddListener(l)
}

// BookingListener 把执行订单转换成成交：
// 成交方向取执行订单定价方向的对手方（BID→SELL，OFFER→BUY），
// 账本按内部计数 mod 3 在 TRSY1/2/3 间轮转，数量 = 可见 + 隐藏。
type BookingListener struct {
	svc   *Service
	count int64
}

// NewBookingListener creates the execution→trade bridge.
func NewBookingListener(svc *Service) *BookingListener {
	return &BookingListener{svc: svc}
}

// ProcessAdd books one trade per execution order.
func (l *BookingListener) ProcessAdd(o execution.ExecutionOrder) error {
	l.count++

	side := Buy
	if o.Side == marketdata.Bid {
		side = Sell
	}

	return l.svc.BookTrade(Trade{
		Product:  o.Product,
		TradeID:  o.OrderID,
		Price:    o.Price,
		Book:     books[l.count%3],
		Quantity: o.TotalQuantity(),
		Side:     side,
	})
}
