// Package pagination 决定章节内容是否需要分页展示，并管理翻页状态。
// 复杂度评分与分页激活条件对所有内容渲染场景保持一致。
package pagination

import (
	"math"

	"training_portal_backend/internal/model"
)

const (
	// DefaultPageSize 每页展示的子章节数量
	DefaultPageSize = 2

	activationScore          = 15
	activationMinSubsections = 2
)

// Complexity 计算内容块列表的复杂度得分：
// 每个块基础分 1；嵌套子章节按其内部得分的 1.5 倍递归累加；
// 列表按每条 0.5 累加；示例与提示框额外 +2。
func Complexity(blocks []model.ContentBlock) float64 {
	score := 0.0
	for _, b := range blocks {
		score++
		switch b.Type {
		case model.BlockSubsection:
			score += 1.5 * Complexity(b.Blocks)
		case model.BlockList:
			score += 0.5 * float64(len(b.Items))
		case model.BlockExample, model.BlockCallout:
			score += 2
		}
	}
	return score
}

func countSubsections(blocks []model.ContentBlock) int {
	n := 0
	for _, b := range blocks {
		if b.Type == model.BlockSubsection {
			n++
		}
	}
	return n
}

// ShouldPaginate 仅当复杂度超过阈值且顶层子章节数量大于 2 时才分页
func ShouldPaginate(section model.ContentSection) bool {
	return Complexity(section.Blocks) > activationScore &&
		countSubsections(section.Blocks) > activationMinSubsections
}

// Plan 一个章节的分页方案。Lead 为非子章节块，始终在首屏渲染；
// 只有子章节块参与分页。未激活时全部内容落在单页。
type Plan struct {
	Active     bool                   `json:"active"`
	Score      float64                `json:"score"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
	Lead       []model.ContentBlock   `json:"lead"`
	Pages      [][]model.ContentBlock `json:"pages"`
}

// BuildPlan 基于章节内容生成分页方案，pageSize<=0 时使用默认值
func BuildPlan(section model.ContentSection, pageSize int) Plan {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	plan := Plan{
		Score:    Complexity(section.Blocks),
		PageSize: pageSize,
	}

	if !ShouldPaginate(section) {
		plan.TotalPages = 1
		plan.Lead = section.Blocks
		plan.Pages = [][]model.ContentBlock{nil}
		return plan
	}

	plan.Active = true
	var subsections []model.ContentBlock
	for _, b := range section.Blocks {
		if b.Type == model.BlockSubsection {
			subsections = append(subsections, b)
		} else {
			plan.Lead = append(plan.Lead, b)
		}
	}

	plan.TotalPages = TotalPages(len(subsections), pageSize)
	for start := 0; start < len(subsections); start += pageSize {
		end := start + pageSize
		if end > len(subsections) {
			end = len(subsections)
		}
		plan.Pages = append(plan.Pages, subsections[start:end])
	}
	return plan
}

// TotalPages ceil(itemCount/pageSize)，最少 1 页
func TotalPages(itemCount, pageSize int) int {
	if itemCount <= 0 || pageSize <= 0 {
		return 1
	}
	pages := int(math.Ceil(float64(itemCount) / float64(pageSize)))
	if pages < 1 {
		pages = 1
	}
	return pages
}
