package model

import "time"

// KVEntry MySQL 后端的键值持久化表
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:longtext" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
