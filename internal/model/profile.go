package model

import "time"

// UserProfile 本地用户档案；只有 Anonymous / Onboarded 两种可观察状态
type UserProfile struct {
	Onboarded   bool       `json:"onboarded"`
	FullName    string     `json:"fullName,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// UserData 对外暴露的完整档案读取结果；读不到完整档案时整体缺席，不返回半填充记录
type UserData struct {
	FullName string `json:"fullName"`
}
