// Package mysql 实现基于 GORM 的历史记录仓储。
// 文件 sink 之外的可选持久化通道：同一条历史行追加写入 MySQL。
package mysql

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// HistoryRepository 历史记录 MySQL 仓储
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建仓储并迁移表结构
func NewHistoryRepository(db *gorm.DB) (*HistoryRepository, error) {
	if err := db.AutoMigrate(&HistoryRecordModel{}); err != nil {
		return nil, fmt.Errorf("history mysql: migrate: %w", err)
	}
	return &HistoryRepository{db: db}, nil
}

// StageSink 返回指定阶段的 history.Sink 适配。
// 行首列是落盘时间戳，其余列合并为 payload。
func (r *HistoryRepository) StageSink(stage string) *StageSink {
	return &StageSink{repo: r, stage: stage}
}

// CountByStage 返回某阶段已持久化的记录数，供核对使用。
func (r *HistoryRepository) CountByStage(stage string) (int64, error) {
	var n int64
	if err := r.db.Model(&HistoryRecordModel{}).Where("stage = ?", stage).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("history mysql: count %s: %w", stage, err)
	}
	return n, nil
}

// StageSink 把单个阶段的历史行写入 MySQL。
type StageSink struct {
	repo  *HistoryRepository
	stage string
}

// Persist 插入一条历史记录。
func (s *StageSink) Persist(row []string) error {
	record := HistoryRecordModel{Stage: s.stage}
	if len(row) > 0 {
		record.RecordedAt = row[0]
		record.Payload = strings.Join(row[1:], ",")
	}
	if err := s.repo.db.Create(&record).Error; err != nil {
		return fmt.Errorf("history mysql: insert %s: %w", s.stage, err)
	}
	return nil
}
