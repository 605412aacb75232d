// Package refdata 提供静态参考数据：在途国债（on-the-run treasuries）
// 的产品信息与每个产品的 PV01 敏感度因子。
// 两个查询都是全函数：未知 CUSIP 返回零值产品 / 零因子，而不是错误。
package refdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bond 一只国债产品，核心管道中不可变。
type Bond struct {
	CUSIP    string
	Ticker   string
	Coupon   decimal.Decimal
	Maturity time.Time
}

// ID returns the product identifier every keyed store uses.
func (b Bond) ID() string { return b.CUSIP }

type bondInfo struct {
	ticker   string
	coupon   string
	maturity string
	pv01     string
}

// 当前在途的七只国债（2Y..30Y）。
var universe = map[string]bondInfo{
	"91282CJL6": {"US2Y", "0.04875", "2025-11-30", "0.01"},
	"91282CJK8": {"US3Y", "0.04625", "2026-11-15", "0.02"},
	"91282CJN2": {"US5Y", "0.04375", "2028-11-30", "0.04"},
	"91282CJM4": {"US7Y", "0.04375", "2030-11-30", "0.06"},
	"91282CJJ1": {"US10Y", "0.045", "2033-11-15", "0.08"},
	"912810TW8": {"US20Y", "0.0475", "2043-11-15", "0.12"},
	"912810TV0": {"US30Y", "0.0475", "2053-11-15", "0.20"},
}

// Lookup resolves a CUSIP to its Bond. Unknown ids yield the zero Bond.
func Lookup(cusip string) Bond {
	info, ok := universe[cusip]
	if !ok {
		return Bond{}
	}
	maturity, _ := time.Parse("2006-01-02", info.maturity)
	return Bond{
		CUSIP:    cusip,
		Ticker:   info.ticker,
		Coupon:   decimal.RequireFromString(info.coupon),
		Maturity: maturity,
	}
}

// PV01Factor returns the static per-product PV01 sensitivity factor.
// Unknown ids yield zero.
func PV01Factor(cusip string) decimal.Decimal {
	info, ok := universe[cusip]
	if !ok {
		return decimal.Zero
	}
	return decimal.RequireFromString(info.pv01)
}

// 曲线分段，用于分桶风险查询。
var (
	frontEnd = []string{"91282CJL6", "91282CJK8"}
	belly    = []string{"91282CJN2", "91282CJM4", "91282CJJ1"}
	longEnd  = []string{"912810TW8", "912810TV0"}
)

// Sector 一组产品构成的曲线分段。
type Sector struct {
	Name     string
	Products []Bond
}

func makeSector(name string, cusips []string) Sector {
	s := Sector{Name: name}
	for _, c := range cusips {
		s.Products = append(s.Products, Lookup(c))
	}
	return s
}

// CurveSectors returns the three standard curve buckets:
// FrontEnd (2Y/3Y), Belly (5Y/7Y/10Y), LongEnd (20Y/30Y).
func CurveSectors() []Sector {
	return []Sector{
		makeSector("FrontEnd", frontEnd),
		makeSector("Belly", belly),
		makeSector("LongEnd", longEnd),
	}
}
