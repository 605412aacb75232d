package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wyfcoding/bondtrading/internal/history"
	historymysql "github.com/wyfcoding/bondtrading/internal/history/persistence/mysql"
	"github.com/wyfcoding/bondtrading/internal/pipeline"
	"github.com/wyfcoding/bondtrading/pkg/config"
	"github.com/wyfcoding/bondtrading/pkg/db"
	"github.com/wyfcoding/bondtrading/pkg/idgen"
	"github.com/wyfcoding/bondtrading/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "配置文件路径")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("trading system failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get().With("service", cfg.ServiceName)
	log.Info("starting trading system", "environment", cfg.Environment)

	ids, err := idgen.New(1)
	if err != nil {
		return fmt.Errorf("init id generator: %w", err)
	}

	// MySQL 历史通道可选：未配置 DSN 时只写文件。
	var extra pipeline.SinkFactory
	if cfg.Database.DSN != "" {
		gormDB, err := db.Init(db.Config{
			Driver:       cfg.Database.Driver,
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		repo, err := historymysql.NewHistoryRepository(gormDB)
		if err != nil {
			return fmt.Errorf("init history repository: %w", err)
		}
		extra = func(stage string) history.Sink { return repo.StageSink(stage) }
	}

	p, err := pipeline.New(cfg, ids, extra, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	if err := p.Replay(); err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	p.Summarize()
	log.Info("trading system finished")
	return nil
}
