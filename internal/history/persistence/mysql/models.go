package mysql

import "time"

// HistoryRecordModel MySQL 历史记录表映射，每个阶段一行一条记录。
type HistoryRecordModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	Stage      string    `gorm:"column:stage;type:varchar(32);index;not null"`
	RecordedAt string    `gorm:"column:recorded_at;type:varchar(32);not null"`
	Payload    string    `gorm:"column:payload;type:text;not null"`
}

func (HistoryRecordModel) TableName() string {
	return "history_records"
}
