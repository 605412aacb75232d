package inquiry

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/bondprice"
)

// Connector 从文本流摄入客户询价。
type Connector struct {
	svc *Service
	log *slog.Logger
}

// NewConnector creates the inquiry ingestion boundary.
func NewConnector(svc *Service) *Connector {
	return &Connector{svc: svc, log: slog.Default().With("connector", "inquiry")}
}

// Subscribe 逐行读取 "inquiryId,cusip,side,quantity,price,state" 记录。
func (c *Connector) Subscribe(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		i, err := parseInquiryLine(line)
		if err != nil {
			c.log.Warn("skipping malformed inquiry line", "line", line, "error", err)
			continue
		}
		if err := c.svc.OnMessage(i); err != nil {
			c.log.Warn("inquiry cascade failed", "inquiryId", i.InquiryID, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("inquiry: read: %w", err)
	}
	return nil
}

func parseInquiryLine(line string) (Inquiry, error) {
	cells := strings.Split(line, ",")
	if len(cells) != 6 {
		return Inquiry{}, fmt.Errorf("want 6 fields, got %d", len(cells))
	}

	var side tradebooking.Side
	switch strings.TrimSpace(cells[2]) {
	case string(tradebooking.Buy):
		side = tradebooking.Buy
	case string(tradebooking.Sell):
		side = tradebooking.Sell
	default:
		return Inquiry{}, fmt.Errorf("bad side %q", cells[2])
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(cells[3]), 10, 64)
	if err != nil {
		return Inquiry{}, fmt.Errorf("bad quantity: %w", err)
	}
	price, err := bondprice.Parse(cells[4])
	if err != nil {
		return Inquiry{}, fmt.Errorf("bad price: %w", err)
	}

	var state State
	switch State(strings.TrimSpace(cells[5])) {
	case Received, Quoted, Done, Rejected, CustomerRejected:
		state = State(strings.TrimSpace(cells[5]))
	default:
		return Inquiry{}, fmt.Errorf("bad state %q", cells[5])
	}

	return Inquiry{
		InquiryID: strings.TrimSpace(cells[0]),
		Product:   refdata.Lookup(strings.TrimSpace(cells[1])),
		Side:      side,
		Quantity:  qty,
		Price:     price,
		State:     state,
	}, nil
}
