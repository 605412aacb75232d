// Package pipeline 装配整条债券交易流水线并回放输入数据。
//
// 接线图（箭头为监听方向）：
//
//	pricing ──▶ algostreaming ──▶ streaming ──▶ history(streaming)
//	   └──────▶ gui
//	marketdata ──▶ algoexecution ──▶ execution ──▶ history(executions)
//	                                    └────────▶ tradebooking
//	tradebooking ──▶ position ──▶ risk ──▶ history(risk)
//	                    └────────▶ history(positions)
//	inquiry ──▶ history(allinquiries)
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/algoexecution"
	"github.com/wyfcoding/bondtrading/internal/algostreaming"
	"github.com/wyfcoding/bondtrading/internal/execution"
	"github.com/wyfcoding/bondtrading/internal/gui"
	"github.com/wyfcoding/bondtrading/internal/history"
	"github.com/wyfcoding/bondtrading/internal/inquiry"
	"github.com/wyfcoding/bondtrading/internal/marketdata"
	"github.com/wyfcoding/bondtrading/internal/position"
	"github.com/wyfcoding/bondtrading/internal/pricing"
	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/internal/risk"
	"github.com/wyfcoding/bondtrading/internal/streaming"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/config"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// SinkFactory 为指定历史阶段提供额外的持久化通道（如 MySQL）。
// 返回 nil 表示该阶段只写文件。
type SinkFactory func(stage string) history.Sink

// Pipeline 持有全部阶段；连接器在回放时按需创建。
type Pipeline struct {
	data config.DataConfig

	Pricing       *pricing.Service
	AlgoStreaming *algostreaming.Engine
	Streaming     *streaming.Service
	GUI           *gui.Service
	MarketData    *marketdata.Service
	AlgoExecution *algoexecution.Engine
	Execution     *execution.Service
	TradeBooking  *tradebooking.Service
	Position      *position.Service
	Risk          *risk.Service
	Inquiry       *inquiry.Service

	StreamHistory    *history.Service[streaming.PriceStream]
	ExecutionHistory *history.Service[execution.ExecutionOrder]
	PositionHistory  *history.Service[position.Position]
	RiskHistory      *history.Service[risk.PV01]
	InquiryHistory   *history.Service[inquiry.Inquiry]

	closers []func() error
	logger  *slog.Logger
}

// New builds every stage from configuration and wires the graph once.
// extra may be nil.
func New(cfg *config.Config, ids algoexecution.IDSource, extra SinkFactory, logger *slog.Logger) (*Pipeline, error) {
	threshold, err := decimal.NewFromString(cfg.Algo.SpreadThreshold)
	if err != nil {
		return nil, fmt.Errorf("pipeline: spread threshold: %w", err)
	}
	quotePrice, err := decimal.NewFromString(cfg.Algo.InquiryQuotePrice)
	if err != nil {
		return nil, fmt.Errorf("pipeline: inquiry quote price: %w", err)
	}

	p := &Pipeline{
		data:          cfg.Data,
		Pricing:       pricing.NewService(),
		AlgoStreaming: algostreaming.NewEngine(cfg.Algo.QuoteSizeA, cfg.Algo.QuoteSizeB),
		Streaming:     streaming.NewService(),
		MarketData:    marketdata.NewService(cfg.Algo.BookDepth),
		AlgoExecution: algoexecution.NewEngine(threshold, ids),
		Execution:     execution.NewService(),
		TradeBooking:  tradebooking.NewService(),
		Position:      position.NewService(),
		Risk:          risk.NewService(),
		Inquiry:       inquiry.NewService(quotePrice),
		logger:        logger,
	}

	guiSink, err := p.fileSink("gui.txt")
	if err != nil {
		return nil, err
	}
	p.GUI = gui.NewService(guiSink,
		time.Duration(cfg.GUI.ThrottleMs)*time.Millisecond, cfg.GUI.MaxUpdates)

	if err := p.buildHistory(extra); err != nil {
		return nil, err
	}

	// 价格线
	p.Pricing.AddListener(p.AlgoStreaming.Listener())
	p.Pricing.AddListener(p.GUI.Listener())
	p.AlgoStreaming.AddListener(soa.ListenerFunc[streaming.PriceStream](p.Streaming.PublishPrice))
	p.Streaming.AddListener(p.StreamHistory)

	// 行情与执行线
	p.MarketData.AddListener(p.AlgoExecution.Listener())
	p.AlgoExecution.AddListener(soa.ListenerFunc[execution.ExecutionOrder](p.Execution.ExecuteOrder))
	p.Execution.AddListener(p.ExecutionHistory)
	p.Execution.AddListener(tradebooking.NewBookingListener(p.TradeBooking))

	// 成交、持仓与风险线
	p.TradeBooking.AddListener(p.Position.Listener())
	p.Position.AddListener(p.Risk.Listener())
	p.Position.AddListener(p.PositionHistory)
	p.Risk.AddListener(p.RiskHistory)

	// 询价线（报价监听器已在阶段内部注册）
	p.Inquiry.AddListener(p.InquiryHistory)

	return p, nil
}

func (p *Pipeline) buildHistory(extra SinkFactory) error {
	sink := func(stage string) (history.Sink, error) {
		fs, err := p.fileSink(stage + ".txt")
		if err != nil {
			return nil, err
		}
		if extra == nil {
			return fs, nil
		}
		if es := extra(stage); es != nil {
			return history.MultiSink{fs, es}, nil
		}
		return fs, nil
	}

	streamSink, err := sink("streaming")
	if err != nil {
		return err
	}
	p.StreamHistory = history.NewService("streaming-history",
		func(ps streaming.PriceStream) string { return ps.Product.ID() },
		history.StreamRow, streamSink)

	execSink, err := sink("executions")
	if err != nil {
		return err
	}
	p.ExecutionHistory = history.NewService("execution-history",
		func(o execution.ExecutionOrder) string { return o.OrderID },
		history.ExecutionRow, execSink)

	posSink, err := sink("positions")
	if err != nil {
		return err
	}
	p.PositionHistory = history.NewService("position-history",
		func(pos position.Position) string { return pos.Product.ID() },
		history.PositionRow, posSink)

	riskSink, err := sink("risk")
	if err != nil {
		return err
	}
	p.RiskHistory = history.NewService("risk-history",
		func(pv risk.PV01) string { return pv.Product.ID() },
		history.RiskRow, riskSink)

	inqSink, err := sink("allinquiries")
	if err != nil {
		return err
	}
	p.InquiryHistory = history.NewService("inquiry-history",
		func(i inquiry.Inquiry) string { return i.InquiryID },
		history.InquiryRow, inqSink)

	return nil
}

func (p *Pipeline) fileSink(name string) (*history.FileSink, error) {
	fs, err := history.NewFileSink(filepath.Join(p.data.OutputDir, name))
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, fs.Close)
	return fs, nil
}

// Replay 按固定顺序回放四个输入文件：价格、成交、行情、询价。
func (p *Pipeline) Replay() error {
	steps := []struct {
		name string
		path string
		run  func(f *os.File) error
	}{
		{"prices", p.data.PricesFile, func(f *os.File) error {
			return pricing.NewConnector(p.Pricing).Subscribe(f)
		}},
		{"trades", p.data.TradesFile, func(f *os.File) error {
			return tradebooking.NewConnector(p.TradeBooking).Subscribe(f)
		}},
		{"marketdata", p.data.MarketDataFile, func(f *os.File) error {
			return marketdata.NewConnector(p.MarketData).Subscribe(f)
		}},
		{"inquiries", p.data.InquiriesFile, func(f *os.File) error {
			return inquiry.NewConnector(p.Inquiry).Subscribe(f)
		}},
	}

	for _, step := range steps {
		f, err := os.Open(step.path)
		if err != nil {
			return fmt.Errorf("pipeline: open %s input: %w", step.name, err)
		}
		p.logger.Info("replaying input", "stage", step.name, "file", step.path)
		runErr := step.run(f)
		f.Close()
		if runErr != nil {
			return fmt.Errorf("pipeline: replay %s: %w", step.name, runErr)
		}
	}
	return nil
}

// Summarize 输出各曲线段的桶化风险。
func (p *Pipeline) Summarize() {
	for _, sector := range refdata.CurveSectors() {
		sr := p.Risk.BucketedRisk(sector)
		p.logger.Info("bucketed risk",
			"sector", sr.Sector.Name,
			"pv01", sr.Value.String(),
			"quantity", sr.Quantity,
		)
	}
	p.logger.Info("products with positions", "cusips", p.Position.Products())
	p.logger.Info("gui snapshots written", "count", p.GUI.Emitted())
}

// Close 关闭全部文件 sink。
func (p *Pipeline) Close() error {
	var first error
	for _, fn := range p.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
