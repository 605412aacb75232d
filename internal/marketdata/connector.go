package marketdata

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

// Connector 从文本流摄入原始挂单并组装订单簿快照。
// 每累积 2×depth 行（两侧合计）发布一份快照；快照的产品取自该批
// 最后一行。若一批行跨越两只产品，前面的行会被错误地归到最后一行
// 的产品下 —— 该行为与上游数据的约定保持一致，刻意不做修正。
type Connector struct {
	svc *Service
	log *slog.Logger
}

// NewConnector creates the market data ingestion boundary.
func NewConnector(svc *Service) *Connector {
	return &Connector{svc: svc, log: slog.Default().With("connector", "marketdata")}
}

// Subscribe 逐行读取 "cusip,price,quantity,side" 记录直到流结束。
// 解析失败的行与广播失败的快照都只记日志并继续处理后续记录。
func (c *Connector) Subscribe(r io.Reader) error {
	batchSize := c.svc.BookDepth() * 2

	var (
		bidStack   []Order
		offerStack []Order
		count      int
		lastCUSIP  string
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cusip, order, err := parseOrderLine(line)
		if err != nil {
			c.log.Warn("skipping malformed market data line", "line", line, "error", err)
			continue
		}

		if order.Side == Bid {
			bidStack = append(bidStack, order)
		} else {
			offerStack = append(offerStack, order)
		}
		lastCUSIP = cusip
		count++

		if count%batchSize == 0 {
			book := OrderBook{
				Product:    refdata.Lookup(lastCUSIP),
				BidStack:   bidStack,
				OfferStack: offerStack,
			}
			if err := c.svc.OnMessage(book); err != nil {
				c.log.Warn("order book cascade failed", "cusip", lastCUSIP, "error", err)
			}
			bidStack = nil
			offerStack = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("marketdata: read: %w", err)
	}
	return nil
}

func parseOrderLine(line string) (string, Order, error) {
	cells := strings.Split(line, ",")
	if len(cells) != 4 {
		return "", Order{}, fmt.Errorf("want 4 fields, got %d", len(cells))
	}

	price, err := bondprice.Parse(cells[1])
	if err != nil {
		return "", Order{}, err
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(cells[2]), 10, 64)
	if err != nil {
		return "", Order{}, fmt.Errorf("bad quantity: %w", err)
	}

	var side PricingSide
	switch strings.TrimSpace(cells[3]) {
	case string(Bid):
		side = Bid
	case string(Offer):
		side = Offer
	default:
		return "", Order{}, fmt.Errorf("bad side %q", cells[3])
	}

	return strings.TrimSpace(cells[0]), Order{Price: price, Quantity: qty, Side: side}, nil
}
