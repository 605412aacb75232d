// Package algostreaming 根据参考价格构造对称双边报价。
// bid = mid − spread/2，offer = mid + spread/2；可见数量在两个固定
// 档位之间逐次交替，隐藏数量恒为可见数量的两倍。
package algostreaming

import (
	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/internal/pricing"
	"github.com/wyfcoding/bondtrading/internal/streaming"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// Engine 报价构造阶段。
type Engine struct {
	store *soa.Store[string, streaming.PriceStream]
	sizeA int64
	sizeB int64
	count int64
}

// NewEngine creates the quote construction stage with the two
// alternating visible size levels.
func NewEngine(sizeA, sizeB int64) *Engine {
	return &Engine{
		store: soa.New("algostreaming", func(ps streaming.PriceStream) string { return ps.Product.ID() }),
		sizeA: sizeA,
		sizeB: sizeB,
	}
}

// Get returns the last constructed stream for a product.
func (e *Engine) Get(productID string) (streaming.PriceStream, error) {
	return e.store.Get(productID)
}

// AddListener registers a downstream consumer of constructed streams.
func (e *Engine) AddListener(l soa.Listener[streaming.PriceStream]) {
	e.store.AddListener(l)
}

// PublishPrice 由价格更新触发：重算双边报价并广播。
func (e *Engine) PublishPrice(p pricing.Price) error {
	visible := e.sizeA
	if e.count%2 == 1 {
		visible = e.sizeB
	}
	hidden := visible * 2
	e.count++

	ps := streaming.PriceStream{
		Product: p.Product,
		Bid: streaming.PriceStreamOrder{
			Price:           p.Bid(),
			VisibleQuantity: visible,
			HiddenQuantity:  hidden,
			Side:            marketdata.Bid,
		},
		Offer: streaming.PriceStreamOrder{
			Price:           p.Offer(),
			VisibleQuantity: visible,
			HiddenQuantity:  hidden,
			Side:            marketdata.Offer,
		},
	}
	return e.store.OnMessage(ps)
}

// Listener 把价格阶段接到报价构造引擎上。
func (e *Engine) Listener() soa.Listener[pricing.Price] {
	return soa.ListenerFunc[pricing.Price](e.PublishPrice)
}
