// Package risk 聚合 PV01 风险。
// 每次头寸更新时，pv01 = 静态因子 × 聚合头寸，整体覆盖该产品的
// 风险记录；分桶查询按需对一组产品求和，从不缓存。
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/position"
	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// PV01 某只产品的风险记录：敏感度值与聚合数量。
type PV01 struct {
	Product  refdata.Bond
	Value    decimal.Decimal
	Quantity int64
}

// SectorRisk 一个曲线分段的聚合风险，按需计算，从不存储。
type SectorRisk struct {
	Sector   refdata.Sector
	Value    decimal.Decimal
	Quantity int64
}

// Service 风险阶段。
type Service struct {
	store *soa.Store[string, PV01]
}

// NewService creates the risk stage.
func NewService() *Service {
	return &Service{
		store: soa.New("risk", func(pv PV01) string { return pv.Product.ID() }),
	}
}

// Get returns the stored risk record for a product.
func (s *Service) Get(productID string) (PV01, error) {
	return s.store.Get(productID)
}

// AddListener registers a downstream consumer of risk updates.
func (s *Service) AddListener(l soa.Listener[PV01]) {
	s.store.AddListener(l)
}

// AddPosition 由头寸更新触发：重算该产品的 PV01 并广播。
func (s *Service) AddPosition(p position.Position) error {
	factor := refdata.PV01Factor(p.Product.CUSIP)
	qty := p.Aggregate()

	return s.store.OnMessage(PV01{
		Product:  p.Product,
		Value:    factor.Mul(decimal.NewFromInt(qty)),
		Quantity: qty,
	})
}

// BucketedRisk 对一个分段内的产品求聚合风险：
// Σ value×quantity 与 Σ quantity，没有风险记录的产品贡献为零。
// 结果每次现算。
func (s *Service) BucketedRisk(sector refdata.Sector) SectorRisk {
	out := SectorRisk{Sector: sector, Value: decimal.Zero}
	for _, product := range sector.Products {
		pv, err := s.store.Get(product.CUSIP)
		if err != nil {
			continue
		}
		out.Value = out.Value.Add(pv.Value.Mul(decimal.NewFromInt(pv.Quantity)))
		out.Quantity += pv.Quantity
	}
	return out
}

// Listener 把头寸阶段接到风险阶段上。
func (s *Service) Listener() soa.Listener[position.Position] {
	return soa.ListenerFunc[position.Position](s.AddPosition)
}
