package history

import (
	"strconv"

	"github.com/wyfcoding/bondtrading/internal/execution"
	"github.com/wyfcoding/bondtrading/internal/inquiry"
	"github.com/wyfcoding/bondtrading/internal/position"
	"github.com/wyfcoding/bondtrading/internal/risk"
	"github.com/wyfcoding/bondtrading/internal/streaming"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
)

// 每个历史阶段的行格式。价格统一用分数报价输出。

// PositionRow renders product, then book/quantity pairs in book order,
// then the aggregate.
func PositionRow(p position.Position) []string {
	row := []string{p.Product.CUSIP}
	for _, book := range p.BookNames() {
		row = append(row, book, strconv.FormatInt(p.Quantity(book), 10))
	}
	return append(row, "AGG", strconv.FormatInt(p.Aggregate(), 10))
}

// RiskRow renders product, pv01 value, quantity.
func RiskRow(pv risk.PV01) []string {
	return []string{pv.Product.CUSIP, pv.Value.String(), strconv.FormatInt(pv.Quantity, 10)}
}

// ExecutionRow renders the order's identifying and pricing fields.
func ExecutionRow(o execution.ExecutionOrder) []string {
	return []string{
		o.Product.CUSIP,
		o.OrderID,
		string(o.Side),
		string(o.Type),
		bondprice.Format(o.Price),
		strconv.FormatInt(o.VisibleQuantity, 10),
		strconv.FormatInt(o.HiddenQuantity, 10),
	}
}

// StreamRow renders both sides of a published price stream.
func StreamRow(ps streaming.PriceStream) []string {
	return []string{
		ps.Product.CUSIP,
		bondprice.Format(ps.Bid.Price),
		strconv.FormatInt(ps.Bid.VisibleQuantity, 10),
		strconv.FormatInt(ps.Bid.HiddenQuantity, 10),
		bondprice.Format(ps.Offer.Price),
		strconv.FormatInt(ps.Offer.VisibleQuantity, 10),
		strconv.FormatInt(ps.Offer.HiddenQuantity, 10),
	}
}

// InquiryRow renders an inquiry with its current state.
func InquiryRow(i inquiry.Inquiry) []string {
	return []string{
		i.InquiryID,
		i.Product.CUSIP,
		string(i.Side),
		strconv.FormatInt(i.Quantity, 10),
		bondprice.Format(i.Price),
		string(i.State),
	}
}
