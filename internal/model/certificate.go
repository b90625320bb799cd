package model

import "time"

// CompletionRecord 单个模块的完成记录
type CompletionRecord struct {
	ModuleID    uint      `json:"moduleId"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completedAt"`
	Score       *int      `json:"score,omitempty"`
	TimeSpent   int       `json:"timeSpent"`
}

// CompletionData 完成快照：只在整体进度 100% 时可构造，构造后只读
type CompletionData struct {
	Modules        []CompletionRecord `json:"modules"`
	CompletedAt    time.Time          `json:"completedAt"`
	TotalTimeSpent int                `json:"totalTimeSpent"`
	OverallScore   int                `json:"overallScore"`
}

// CompletionSummary 轻量聚合读取，用于前置判断证书是否可生成
type CompletionSummary struct {
	CompletedCount  int  `json:"completedModules"`
	TotalCount      int  `json:"totalModules"`
	OverallProgress int  `json:"overallProgress"`
	IsComplete      bool `json:"isComplete"`
}

// GeneratedCertificate 已签发证书的不可变历史记录，只追加不修改
type GeneratedCertificate struct {
	ID         string         `json:"id"`
	IssuedAt   time.Time      `json:"issuedAt"`
	User       UserData       `json:"user"`
	Completion CompletionData `json:"completion"`
}
