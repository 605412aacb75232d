package position

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

func testTrade(cusip, book string, qty int64, side tradebooking.Side) tradebooking.Trade {
	return tradebooking.Trade{
		Product:  refdata.Lookup(cusip),
		TradeID:  uuid.NewString(),
		Price:    decimal.NewFromInt(99),
		Book:     book,
		Quantity: qty,
		Side:     side,
	}
}

func TestAddTradeAccumulatesPerBook(t *testing.T) {
	svc := NewService()

	require.NoError(t, svc.AddTrade(testTrade("91282CJL6", "TRSY1", 1000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("91282CJL6", "TRSY1", 2000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("91282CJL6", "TRSY2", 5000000, tradebooking.Buy)))

	pos, err := svc.Get("91282CJL6")
	require.NoError(t, err)
	assert.Equal(t, int64(3000000), pos.Quantity("TRSY1"))
	assert.Equal(t, int64(5000000), pos.Quantity("TRSY2"))
	assert.Equal(t, int64(8000000), pos.Aggregate())
}

func TestSellNetsAgainstBuy(t *testing.T) {
	svc := NewService()

	require.NoError(t, svc.AddTrade(testTrade("91282CJK8", "TRSY3", 4000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("91282CJK8", "TRSY3", 1000000, tradebooking.Sell)))

	pos, err := svc.Get("91282CJK8")
	require.NoError(t, err)
	assert.Equal(t, int64(3000000), pos.Quantity("TRSY3"))

	// 全部卖出后净额可为负。
	require.NoError(t, svc.AddTrade(testTrade("91282CJK8", "TRSY3", 7000000, tradebooking.Sell)))
	pos, err = svc.Get("91282CJK8")
	require.NoError(t, err)
	assert.Equal(t, int64(-4000000), pos.Aggregate())
}

func TestListenersSeeMergedPosition(t *testing.T) {
	svc := NewService()

	var aggregates []int64
	svc.AddListener(soa.ListenerFunc[Position](func(p Position) error {
		aggregates = append(aggregates, p.Aggregate())
		return nil
	}))

	require.NoError(t, svc.AddTrade(testTrade("912810TW8", "TRSY1", 1000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("912810TW8", "TRSY2", 2000000, tradebooking.Buy)))

	assert.Equal(t, []int64{1000000, 3000000}, aggregates)
}

func TestProductsStayIndependent(t *testing.T) {
	svc := NewService()

	require.NoError(t, svc.AddTrade(testTrade("91282CJL6", "TRSY1", 1000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("912810TV0", "TRSY1", 2000000, tradebooking.Buy)))

	first, err := svc.Get("91282CJL6")
	require.NoError(t, err)
	second, err := svc.Get("912810TV0")
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), first.Aggregate())
	assert.Equal(t, int64(2000000), second.Aggregate())
}

func TestProductsListsHeldCUSIPs(t *testing.T) {
	svc := NewService()

	require.NoError(t, svc.AddTrade(testTrade("912810TV0", "TRSY1", 1000000, tradebooking.Buy)))
	require.NoError(t, svc.AddTrade(testTrade("91282CJL6", "TRSY1", 1000000, tradebooking.Buy)))

	assert.Equal(t, []string{"912810TV0", "91282CJL6"}, svc.Products())
}

func TestBookNamesSorted(t *testing.T) {
	pos := NewPosition(refdata.Lookup("91282CJL6"))
	pos.Add("TRSY3", 1)
	pos.Add("TRSY1", 1)
	pos.Add("TRSY2", 1)

	assert.Equal(t, []string{"TRSY1", "TRSY2", "TRSY3"}, pos.BookNames())
}
