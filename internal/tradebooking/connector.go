package tradebooking

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
)

// Connector 从文本流摄入人工成交记录。
type Connector struct {
	svc *Service
	log *slog.Logger
}

// NewConnector creates the trade ingestion boundary.
func NewConnector(svc *Service) *Connector {
	return &Connector{svc: svc, log: slog.Default().With("connector", "tradebooking")}
}

// Subscribe 逐行读取 "cusip,tradeId,price,book,quantity,side" 记录。
func (c *Connector) Subscribe(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		t, err := parseTradeLine(line)
		if err != nil {
			c.log.Warn("skipping malformed trade line", "line", line, "error", err)
			continue
		}
		if err := c.svc.BookTrade(t); err != nil {
			c.log.Warn("trade cascade failed", "tradeId", t.TradeID, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("tradebooking: read: %w", err)
	}
	return nil
}

func parseTradeLine(line string) (Trade, error) {
	cells := strings.Split(line, ",")
	if len(cells) != 6 {
		return Trade{}, fmt.Errorf("want 6 fields, got %d", len(cells))
	}

	price, err := bondprice.Parse(cells[2])
	if err != nil {
		return Trade{}, fmt.Errorf("bad price: %w", err)
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(cells[4]), 10, 64)
	if err != nil {
		return Trade{}, fmt.Errorf("bad quantity: %w", err)
	}

	var side Side
	switch strings.TrimSpace(cells[5]) {
	case string(Buy):
		side = Buy
	case string(Sell):
		side = Sell
	default:
		return Trade{}, fmt.Errorf("bad side %q", cells[5])
	}

	return Trade{
		Product:  refdata.Lookup(strings.TrimSpace(cells[0])),
		TradeID:  strings.TrimSpace(cells[1]),
		Price:    price,
		Book:     strings.TrimSpace(cells[3]),
		Quantity: qty,
		Side:     side,
	}, nil
}
