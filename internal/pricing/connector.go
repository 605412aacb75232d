package pricing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
)

// Connector 从文本流摄入参考价格。
type Connector struct {
	svc *Service
	log *slog.Logger
}

// NewConnector creates the price ingestion boundary.
func NewConnector(svc *Service) *Connector {
	return &Connector{svc: svc, log: slog.Default().With("connector", "pricing")}
}

// Subscribe 逐行读取 "cusip,mid,spread" 记录（价格为分数报价格式）。
// 坏行与广播失败都只记日志并继续。
func (c *Connector) Subscribe(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, err := parsePriceLine(line)
		if err != nil {
			c.log.Warn("skipping malformed price line", "line", line, "error", err)
			continue
		}
		if err := c.svc.OnMessage(p); err != nil {
			c.log.Warn("price cascade failed", "cusip", p.Product.CUSIP, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pricing: read: %w", err)
	}
	return nil
}

func parsePriceLine(line string) (Price, error) {
	cells := strings.Split(line, ",")
	if len(cells) != 3 {
		return Price{}, fmt.Errorf("want 3 fields, got %d", len(cells))
	}

	mid, err := bondprice.Parse(cells[1])
	if err != nil {
		return Price{}, fmt.Errorf("bad mid: %w", err)
	}
	spread, err := bondprice.Parse(cells[2])
	if err != nil {
		return Price{}, fmt.Errorf("bad spread: %w", err)
	}

	return Price{
		Product: refdata.Lookup(strings.TrimSpace(cells[0])),
		Mid:     mid,
		Spread:  spread,
	}, nil
}
