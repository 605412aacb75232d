// Package execution 管理已决策的执行订单。
// 按产品键存储：同一产品后到的订单覆盖先前的，只保留最新一条。
package execution

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// OrderType 订单类型
type OrderType string

const (
	FOK    OrderType = "FOK"
	IOC    OrderType = "IOC"
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
	Stop   OrderType = "STOP"
)

// ExecutionOrder 一条执行订单，创建后不可变。
type ExecutionOrder struct {
	Product         refdata.Bond
	Side            marketdata.PricingSide
	OrderID         string
	Type            OrderType
	Price           decimal.Decimal
	VisibleQuantity int64
	HiddenQuantity  int64
	ParentOrderID   string
	IsChildOrder    bool
}

// TotalQuantity returns visible plus hidden quantity.
func (o ExecutionOrder) TotalQuantity() int64 {
	return o.VisibleQuantity + o.HiddenQuantity
}

// Service 执行阶段。
type Service struct {
	store *soa.Store[string, ExecutionOrder]
}

// NewService creates the execution stage.
func NewService() *Service {
	return &Service{
		store: soa.New("execution", func(o ExecutionOrder) string { return o.Product.ID() }),
	}
}

// Get returns the latest execution order for a product.
func (s *Service) Get(productID string) (ExecutionOrder, error) {
	return s.store.Get(productID)
}

// ExecuteOrder 存储订单并通知下游（成交入账、历史落盘）。
func (s *Service) ExecuteOrder(o ExecutionOrder) error {
	return s.store.OnMessage(o)
}

// AddListener registers a downstream consumer of execution orders.
func (s *Service) AddListener(l soa.Listener[ExecutionOrder]) {
	s.store.AddListener(l)
}

// Listener 把算法执行阶段接到执行阶段上。
func (s *Service) Listener() soa.Listener[ExecutionOrder] {
	return soa.ListenerFunc[ExecutionOrder](s.ExecuteOrder)
}
