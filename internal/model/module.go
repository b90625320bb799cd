package model

import "time"

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// BlockType 内容块类型
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockList       BlockType = "list"
	BlockCallout    BlockType = "callout"
	BlockExample    BlockType = "example"
	BlockSubsection BlockType = "subsection"
)

// ContentBlock 章节内的一个内容块；subsection 类型可递归嵌套子块
type ContentBlock struct {
	Type   BlockType      `json:"type"`
	Title  string         `json:"title,omitempty"`
	Text   string         `json:"text,omitempty"`
	Items  []string       `json:"items,omitempty"`
	Blocks []ContentBlock `json:"blocks,omitempty"`
}

// ContentSection 模块内容章节
type ContentSection struct {
	Title  string         `json:"title"`
	Blocks []ContentBlock `json:"blocks"`
}

// QuizQuestion 模块内嵌测验题
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// ModuleDefinition 静态目录中的模块定义，构建期固定，运行时只读
type ModuleDefinition struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Difficulty  Difficulty       `json:"difficulty"`
	Objectives  []string         `json:"objectives"`
	Sections    []ContentSection `json:"sections"`
	Quiz        []QuizQuestion   `json:"quiz"`
	// RequiredFor 为空表示对所有用户可见
	RequiredFor []string `json:"requiredFor,omitempty"`
}

// ModuleRuntime 叠加在静态定义之上的用户进度字段；只有这些字段会被持久化
type ModuleRuntime struct {
	Completed    bool       `json:"completed"`
	Progress     int        `json:"progress"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	TimeSpent    int        `json:"timeSpent"`
	QuizScore    *int       `json:"quizScore,omitempty"`
}

// Module 目录定义与运行时进度的合并视图
type Module struct {
	ModuleDefinition
	ModuleRuntime
}

// TrainingStats 由模块列表派生的聚合统计，任何 completed 变化后必须同步重算
type TrainingStats struct {
	CompletedCount  int `json:"completedModules"`
	TotalCount      int `json:"totalModules"`
	OverallProgress int `json:"overallProgress"`
}
