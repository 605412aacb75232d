// Package marketdata 管理订单簿行情：全量快照存储、最优买卖价
// 与按价格档位聚合的深度。
package marketdata

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/refdata"
)

// ErrEmptyBook 请求最优买卖价时某一侧没有任何挂单。
var ErrEmptyBook = errors.New("bid or offer stack is empty")

// PricingSide 挂单方向
type PricingSide string

const (
	Bid   PricingSide = "BID"
	Offer PricingSide = "OFFER"
)

// Order 单条挂单：价格、数量、方向。没有独立的订单标识。
type Order struct {
	Price    decimal.Decimal
	Quantity int64
	Side     PricingSide
}

// BidOffer 最优买价与最优卖价。
type BidOffer struct {
	Bid   Order
	Offer Order
}

// Spread returns offer price minus bid price.
func (bo BidOffer) Spread() decimal.Decimal {
	return bo.Offer.Price.Sub(bo.Bid.Price)
}

// OrderBook 某只产品的全量订单簿快照。每次更新整体替换上一份快照。
type OrderBook struct {
	Product    refdata.Bond
	BidStack   []Order
	OfferStack []Order
}

// BestBidOffer 扫描两侧，返回最高买价与最低卖价。
// 价格相同时保留先遇到的挂单。任一侧为空时返回 ErrEmptyBook。
func (b OrderBook) BestBidOffer() (BidOffer, error) {
	if len(b.BidStack) == 0 || len(b.OfferStack) == 0 {
		return BidOffer{}, fmt.Errorf("%s: %w", b.Product.CUSIP, ErrEmptyBook)
	}

	bestBid := b.BidStack[0]
	for _, o := range b.BidStack[1:] {
		if o.Price.GreaterThan(bestBid.Price) {
			bestBid = o
		}
	}

	bestOffer := b.OfferStack[0]
	for _, o := range b.OfferStack[1:] {
		if o.Price.LessThan(bestOffer.Price) {
			bestOffer = o
		}
	}

	return BidOffer{Bid: bestBid, Offer: bestOffer}, nil
}

// AggregateDepth 把两侧的挂单按相同价格分组、数量求和，
// 返回每个价格档位只出现一次的新订单簿。档位顺序不作保证。
func (b OrderBook) AggregateDepth() OrderBook {
	return OrderBook{
		Product:    b.Product,
		BidStack:   aggregateOrders(b.BidStack, Bid),
		OfferStack: aggregateOrders(b.OfferStack, Offer),
	}
}

func aggregateOrders(orders []Order, side PricingSide) []Order {
	byPrice := make(map[string]int64, len(orders))
	for _, o := range orders {
		byPrice[o.Price.String()] += o.Quantity
	}

	out := make([]Order, 0, len(byPrice))
	for price, qty := range byPrice {
		out = append(out, Order{
			Price:    decimal.RequireFromString(price),
			Quantity: qty,
			Side:     side,
		})
	}
	return out
}
