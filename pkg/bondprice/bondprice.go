// Package bondprice 实现美国国债的分数报价编解码。
// 报价格式为 "W-XY" 或 "W-XY+"：W 是整数部分，XY 是 32 分之几
// （两位，00..31），结尾的 '+' 额外加半个 32 分之一（即 1/64）。
package bondprice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thirtyTwo = decimal.NewFromInt(32)
	sixtyFour = decimal.NewFromInt(64)
	two       = decimal.NewFromInt(2)
)

// Parse decodes a fractional treasury quote ("99-16+") into a decimal
// price (99.515625).
func Parse(s string) (decimal.Decimal, error) {
	body, plus := strings.CutSuffix(strings.TrimSpace(s), "+")

	whole, frac, ok := strings.Cut(body, "-")
	if !ok {
		return decimal.Zero, fmt.Errorf("bondprice: %q: missing '-' separator", s)
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bondprice: %q: bad whole part: %w", s, err)
	}
	if len(frac) != 2 {
		return decimal.Zero, fmt.Errorf("bondprice: %q: 32nds part must be two digits", s)
	}
	xy, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bondprice: %q: bad 32nds part: %w", s, err)
	}
	if xy < 0 || xy > 31 {
		return decimal.Zero, fmt.Errorf("bondprice: %q: 32nds part out of range", s)
	}

	price := decimal.NewFromInt(w).Add(decimal.NewFromInt(xy).Div(thirtyTwo))
	if plus {
		price = price.Add(decimal.NewFromInt(1).Div(sixtyFour))
	}
	return price, nil
}

// Format encodes a decimal price into the fractional quote form.
// The price is truncated to the nearest 64th, matching Parse's domain.
func Format(price decimal.Decimal) string {
	whole := price.Floor()
	frac32 := price.Sub(whole).Mul(thirtyTwo)

	xy := frac32.Floor()
	// 余下的不足 1/32 的部分若达到 1/64 则以 '+' 标记
	plus := frac32.Sub(xy).Mul(two).Floor().Equal(decimal.NewFromInt(1))

	out := fmt.Sprintf("%s-%02d", whole.String(), xy.IntPart())
	if plus {
		out += "+"
	}
	return out
}
