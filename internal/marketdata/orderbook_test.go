package marketdata

import (
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := bondprice.Parse(s)
	require.NoError(t, err)
	return d
}

func testBook(t *testing.T, bids, offers []Order) OrderBook {
	t.Helper()
	return OrderBook{
		Product:    refdata.Lookup("91282CJJ1"),
		BidStack:   bids,
		OfferStack: offers,
	}
}

func TestBestBidOffer(t *testing.T) {
	book := testBook(t,
		[]Order{
			{Price: price(t, "99-15"), Quantity: 1000000, Side: Bid},
			{Price: price(t, "99-16"), Quantity: 2000000, Side: Bid},
			{Price: price(t, "99-14"), Quantity: 3000000, Side: Bid},
		},
		[]Order{
			{Price: price(t, "99-18"), Quantity: 1000000, Side: Offer},
			{Price: price(t, "99-17"), Quantity: 2000000, Side: Offer},
			{Price: price(t, "99-19"), Quantity: 3000000, Side: Offer},
		})

	bo, err := book.BestBidOffer()
	require.NoError(t, err)

	// 买一 >= 其余所有买价，卖一 <= 其余所有卖价
	for _, o := range book.BidStack {
		assert.True(t, bo.Bid.Price.GreaterThanOrEqual(o.Price))
	}
	for _, o := range book.OfferStack {
		assert.True(t, bo.Offer.Price.LessThanOrEqual(o.Price))
	}
	assert.True(t, bo.Bid.Price.Equal(price(t, "99-16")))
	assert.True(t, bo.Offer.Price.Equal(price(t, "99-17")))
	assert.True(t, bo.Spread().Equal(price(t, "99-17").Sub(price(t, "99-16"))))
}

func TestBestBidOfferTieKeepsFirst(t *testing.T) {
	book := testBook(t,
		[]Order{
			{Price: price(t, "99-16"), Quantity: 111, Side: Bid},
			{Price: price(t, "99-16"), Quantity: 222, Side: Bid},
		},
		[]Order{
			{Price: price(t, "99-17"), Quantity: 333, Side: Offer},
			{Price: price(t, "99-17"), Quantity: 444, Side: Offer},
		})

	bo, err := book.BestBidOffer()
	require.NoError(t, err)
	assert.Equal(t, int64(111), bo.Bid.Quantity)
	assert.Equal(t, int64(333), bo.Offer.Quantity)
}

func TestBestBidOfferEmptySide(t *testing.T) {
	book := testBook(t, nil, []Order{{Price: price(t, "99-17"), Quantity: 1, Side: Offer}})

	_, err := book.BestBidOffer()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyBook)
}

func levels(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Price.String()+"/"+decimal.NewFromInt(o.Quantity).String())
	}
	sort.Strings(out)
	return out
}

func TestAggregateDepthSumsPerPriceLevel(t *testing.T) {
	book := testBook(t,
		[]Order{
			{Price: price(t, "99-16"), Quantity: 100, Side: Bid},
			{Price: price(t, "99-16"), Quantity: 200, Side: Bid},
			{Price: price(t, "99-15"), Quantity: 300, Side: Bid},
		},
		[]Order{
			{Price: price(t, "99-17"), Quantity: 400, Side: Offer},
			{Price: price(t, "99-17"), Quantity: 500, Side: Offer},
		})

	agg := book.AggregateDepth()
	assert.Len(t, agg.BidStack, 2)
	assert.Len(t, agg.OfferStack, 1)
	assert.Equal(t, []string{"99.46875/300", "99.5/300"}, levels(agg.BidStack))
	assert.Equal(t, []string{"99.53125/900"}, levels(agg.OfferStack))
}

func TestAggregateDepthIdempotent(t *testing.T) {
	book := testBook(t,
		[]Order{
			{Price: price(t, "99-16"), Quantity: 100, Side: Bid},
			{Price: price(t, "99-16"), Quantity: 200, Side: Bid},
			{Price: price(t, "99-15"), Quantity: 300, Side: Bid},
		},
		[]Order{
			{Price: price(t, "99-17"), Quantity: 400, Side: Offer},
			{Price: price(t, "99-18"), Quantity: 500, Side: Offer},
		})

	once := book.AggregateDepth()
	twice := once.AggregateDepth()

	assert.Equal(t, levels(once.BidStack), levels(twice.BidStack))
	assert.Equal(t, levels(once.OfferStack), levels(twice.OfferStack))
}

func TestConnectorBatchesBySideAndDepth(t *testing.T) {
	svc := NewService(2) // batch = 4 lines

	var books []OrderBook
	svc.AddListener(soa.ListenerFunc[OrderBook](func(b OrderBook) error {
		books = append(books, b)
		return nil
	}))

	input := strings.Join([]string{
		"91282CJJ1,99-16,1000000,BID",
		"91282CJJ1,99-15,2000000,BID",
		"91282CJJ1,99-17,1000000,OFFER",
		"91282CJJ1,99-18,2000000,OFFER",
	}, "\n")

	require.NoError(t, NewConnector(svc).Subscribe(strings.NewReader(input)))

	require.Len(t, books, 1)
	assert.Equal(t, "91282CJJ1", books[0].Product.CUSIP)
	assert.Len(t, books[0].BidStack, 2)
	assert.Len(t, books[0].OfferStack, 2)

	stored, err := svc.Get("91282CJJ1")
	require.NoError(t, err)
	assert.Len(t, stored.BidStack, 2)
}

func TestConnectorLabelsBatchByLastLine(t *testing.T) {
	svc := NewService(1) // batch = 2 lines

	var books []OrderBook
	svc.AddListener(soa.ListenerFunc[OrderBook](func(b OrderBook) error {
		books = append(books, b)
		return nil
	}))

	// 一批跨越两只产品：快照归属于最后一行的产品
	input := "91282CJJ1,99-16,1000000,BID\n91282CJL6,99-17,1000000,OFFER\n"
	require.NoError(t, NewConnector(svc).Subscribe(strings.NewReader(input)))

	require.Len(t, books, 1)
	assert.Equal(t, "91282CJL6", books[0].Product.CUSIP)
}
