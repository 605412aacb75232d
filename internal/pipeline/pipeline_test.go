package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/bondtrading/internal/inquiry"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/config"
)

type seqIDs struct{ n int }

func (s *seqIDs) NextID() string {
	s.n++
	return fmt.Sprintf("ORD-%d", s.n)
}

func writeInput(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	prices := writeInput(t, dir, "prices.txt", []string{
		"91282CJL6,99-16,0-00+",
		"91282CJK8,100-00,0-01",
	})
	trades := writeInput(t, dir, "trades.txt", []string{
		"91282CJL6,T1,99-16,TRSY1,1000000,BUY",
		"91282CJL6,T2,99-16,TRSY2,500000,SELL",
	})
	// depth 5 → 每 10 行合成一个订单簿；买一卖一同价，价差为零。
	mktdata := writeInput(t, dir, "mktdata.txt", []string{
		"91282CJN2,99-16,1000000,BID",
		"91282CJN2,99-15,2000000,BID",
		"91282CJN2,99-14,3000000,BID",
		"91282CJN2,99-13,4000000,BID",
		"91282CJN2,99-12,5000000,BID",
		"91282CJN2,99-16,1000000,OFFER",
		"91282CJN2,99-17,2000000,OFFER",
		"91282CJN2,99-18,3000000,OFFER",
		"91282CJN2,99-19,4000000,OFFER",
		"91282CJN2,99-20,5000000,OFFER",
	})
	inquiries := writeInput(t, dir, "inquiries.txt", []string{
		"INQ1,91282CJM4,BUY,1000000,100-00,RECEIVED",
	})

	return &config.Config{
		ServiceName: "tradingsystem-test",
		Data: config.DataConfig{
			PricesFile:     prices,
			TradesFile:     trades,
			MarketDataFile: mktdata,
			InquiriesFile:  inquiries,
			OutputDir:      filepath.Join(dir, "output"),
		},
		Algo: config.AlgoConfig{
			BookDepth:         5,
			SpreadThreshold:   "0.0078125",
			QuoteSizeA:        1000000,
			QuoteSizeB:        2000000,
			InquiryQuotePrice: "100",
		},
		GUI: config.GUIConfig{ThrottleMs: 300, MaxUpdates: 100},
	}
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := New(testConfig(t), &seqIDs{}, nil, log)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestReplayDrivesFullGraph(t *testing.T) {
	p := newTestPipeline(t)
	require.NoError(t, p.Replay())

	// 价格线：两条价格都构造出双边报价。
	ps, err := p.AlgoStreaming.Get("91282CJL6")
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), ps.Bid.VisibleQuantity)
	ps, err = p.AlgoStreaming.Get("91282CJK8")
	require.NoError(t, err)
	assert.Equal(t, int64(2000000), ps.Bid.VisibleQuantity)

	// 执行线：零价差触发一笔市价单并自动入账。
	order, err := p.Execution.Get("91282CJN2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.OrderID)

	booked, err := p.TradeBooking.Get("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, tradebooking.Sell, booked.Side)
	assert.Equal(t, "TRSY2", booked.Book)

	// 头寸与风险：手工成交 +1M −0.5M，执行成交 −1M。
	pos, err := p.Position.Get("91282CJL6")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), pos.Aggregate())

	pos, err = p.Position.Get("91282CJN2")
	require.NoError(t, err)
	assert.Equal(t, int64(-1000000), pos.Aggregate())

	pv, err := p.Risk.Get("91282CJN2")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-40000).Equal(pv.Value), "got %s", pv.Value)

	// 询价线：单次回放内自动决议。
	inq, err := p.Inquiry.Get("INQ1")
	require.NoError(t, err)
	assert.Equal(t, inquiry.Done, inq.State)
	assert.True(t, decimal.NewFromInt(100).Equal(inq.Price))
}

func TestReplayWritesHistoryFiles(t *testing.T) {
	p := newTestPipeline(t)
	require.NoError(t, p.Replay())
	require.NoError(t, p.Close())

	outputs := map[string]int{
		"streaming.txt":    2, // 每条价格一行
		"executions.txt":   1,
		"positions.txt":    3, // 两笔手工成交 + 一笔执行成交
		"risk.txt":         3,
		"allinquiries.txt": 3, // QUOTED、DONE，以及外层对原始记录的广播
		"gui.txt":          1, // 两条价格挤在限流间隔内
	}
	for name, want := range outputs {
		data, err := os.ReadFile(filepath.Join(p.data.OutputDir, name))
		require.NoError(t, err, name)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, want, name)
	}
}

func TestSummarizeAfterReplay(t *testing.T) {
	p := newTestPipeline(t)
	require.NoError(t, p.Replay())

	// 只验证不触发空桶崩溃。
	p.Summarize()
}
