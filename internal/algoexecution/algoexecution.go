// Package algoexecution 实现穿越价差的执行决策。
// 每次订单簿更新计算最优买卖价：当 offer − bid ≤ 阈值（默认 1/128）
// 时按交替方向吃单 —— BID 轮取买一的价格和数量，OFFER 轮取卖一的，
// 合成一条市价单并广播；价差过宽则什么都不做。
package algoexecution

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/execution"
	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// IDSource 生成订单 ID 的边界，运行内保证唯一。
type IDSource interface {
	NextID() string
}

// Engine 算法执行决策阶段。调用之间只保留方向交替计数。
type Engine struct {
	store     *soa.Store[string, execution.ExecutionOrder]
	threshold decimal.Decimal
	ids       IDSource
	sideCount int64
}

// NewEngine creates the decision stage with the spread threshold.
func NewEngine(threshold decimal.Decimal, ids IDSource) *Engine {
	return &Engine{
		store:     soa.New("algoexecution", func(o execution.ExecutionOrder) string { return o.Product.ID() }),
		threshold: threshold,
		ids:       ids,
	}
}

// DefaultThreshold 1/128，穿越价差的默认上限。
func DefaultThreshold() decimal.Decimal {
	return decimal.NewFromInt(1).Div(decimal.NewFromInt(128))
}

// Get returns the latest decided order for a product.
func (e *Engine) Get(productID string) (execution.ExecutionOrder, error) {
	return e.store.Get(productID)
}

// AddListener registers a downstream consumer of decided orders.
func (e *Engine) AddListener(l soa.Listener[execution.ExecutionOrder]) {
	e.store.AddListener(l)
}

// OnOrderBook 由行情更新触发。
func (e *Engine) OnOrderBook(book marketdata.OrderBook) error {
	bo, err := book.BestBidOffer()
	if err != nil {
		return err
	}
	if bo.Spread().GreaterThan(e.threshold) {
		return nil
	}

	side := marketdata.Bid
	chosen := bo.Bid
	if e.sideCount%2 == 1 {
		side = marketdata.Offer
		chosen = bo.Offer
	}

	order := execution.ExecutionOrder{
		Product:         book.Product,
		Side:            side,
		OrderID:         e.ids.NextID(),
		Type:            execution.Market,
		Price:           chosen.Price,
		VisibleQuantity: chosen.Quantity,
		HiddenQuantity:  0,
		ParentOrderID:   "",
		IsChildOrder:    false,
	}

	if err := e.store.OnMessage(order); err != nil {
		return err
	}
	e.sideCount++
	return nil
}

// Listener 把行情阶段接到执行决策引擎上。
func (e *Engine) Listener() soa.Listener[marketdata.OrderBook] {
	return soa.ListenerFunc[marketdata.OrderBook](e.OnOrderBook)
}
