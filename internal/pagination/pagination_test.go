package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"training_portal_backend/internal/model"
)

func subsection(inner ...model.ContentBlock) model.ContentBlock {
	return model.ContentBlock{Type: model.BlockSubsection, Blocks: inner}
}

func textBlock() model.ContentBlock {
	return model.ContentBlock{Type: model.BlockText, Text: "段落"}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		name   string
		blocks []model.ContentBlock
		want   float64
	}{
		{"empty", nil, 0},
		{"plain text", []model.ContentBlock{textBlock(), textBlock()}, 2},
		{
			"list entries weigh half each",
			[]model.ContentBlock{{Type: model.BlockList, Items: []string{"a", "b", "c", "d"}}},
			1 + 0.5*4,
		},
		{
			"example and callout add two",
			[]model.ContentBlock{{Type: model.BlockExample}, {Type: model.BlockCallout}},
			3 + 3,
		},
		{
			"subsection recurses at 1.5x",
			[]model.ContentBlock{subsection(textBlock(), textBlock())},
			1 + 1.5*2,
		},
		{
			"nested subsection compounds",
			[]model.ContentBlock{subsection(subsection(textBlock()))},
			1 + 1.5*(1+1.5*1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Complexity(tt.blocks), 1e-9)
		})
	}
}

func TestShouldPaginate(t *testing.T) {
	// 3 个子章节、每个含 3 个文本块：score = 3*(1+1.5*3) = 16.5 > 15
	rich := model.ContentSection{Blocks: []model.ContentBlock{
		subsection(textBlock(), textBlock(), textBlock()),
		subsection(textBlock(), textBlock(), textBlock()),
		subsection(textBlock(), textBlock(), textBlock()),
	}}
	assert.True(t, ShouldPaginate(rich))

	// 分数足够但顶层子章节只有 2 个，不激活
	heavyButFlat := model.ContentSection{Blocks: []model.ContentBlock{
		subsection(textBlock(), textBlock(), textBlock(), textBlock()),
		subsection(textBlock(), textBlock(), textBlock(), textBlock()),
		{Type: model.BlockExample},
		{Type: model.BlockCallout},
	}}
	assert.False(t, ShouldPaginate(heavyButFlat))

	// 子章节数量够但内容太轻，不激活
	lightButDeep := model.ContentSection{Blocks: []model.ContentBlock{
		subsection(), subsection(), subsection(),
	}}
	assert.False(t, ShouldPaginate(lightButDeep))

	assert.False(t, ShouldPaginate(model.ContentSection{}))
}

func TestBuildPlan_Inactive(t *testing.T) {
	section := model.ContentSection{Blocks: []model.ContentBlock{textBlock(), textBlock()}}
	plan := BuildPlan(section, 0)

	assert.False(t, plan.Active)
	assert.Equal(t, DefaultPageSize, plan.PageSize)
	assert.Equal(t, 1, plan.TotalPages)
	assert.Len(t, plan.Lead, 2)
}

func TestBuildPlan_FiveSubsections(t *testing.T) {
	blocks := []model.ContentBlock{textBlock()}
	for i := 0; i < 5; i++ {
		blocks = append(blocks, subsection(textBlock(), textBlock(), textBlock()))
	}
	plan := BuildPlan(model.ContentSection{Blocks: blocks}, 2)

	require.True(t, plan.Active)
	assert.Equal(t, 3, plan.TotalPages)
	require.Len(t, plan.Pages, 3)
	assert.Len(t, plan.Pages[0], 2)
	assert.Len(t, plan.Pages[1], 2)
	assert.Len(t, plan.Pages[2], 1)
	// 非子章节块进入首屏导语，不参与翻页
	require.Len(t, plan.Lead, 1)
	assert.Equal(t, model.BlockText, plan.Lead[0].Type)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 2))
	assert.Equal(t, 1, TotalPages(2, 2))
	assert.Equal(t, 2, TotalPages(3, 2))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 1, TotalPages(5, 0))
}

func TestPaginator_Navigation(t *testing.T) {
	p := NewPaginator(5, Options{PageSize: 2})
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 3, p.TotalPages())

	p.Next()
	assert.Equal(t, 2, p.Page())
	p.Next()
	assert.Equal(t, 3, p.Page())

	// 末页继续前进为无操作
	p.Next()
	assert.Equal(t, 3, p.Page())

	p.Prev()
	p.Prev()
	assert.Equal(t, 1, p.Page())
	p.Prev()
	assert.Equal(t, 1, p.Page())
}

func TestPaginator_BoundaryCallbacksFireOncePerArrival(t *testing.T) {
	firstCalls, lastCalls := 0, 0
	p := NewPaginator(5, Options{
		PageSize:    2,
		OnFirstPage: func() { firstCalls++ },
		OnLastPage:  func() { lastCalls++ },
	})
	// 创建时位于第 1 页
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, lastCalls)

	p.Next()
	p.Next()
	assert.Equal(t, 1, lastCalls)

	// 停在末页反复 Next 不重复触发
	p.Next()
	p.Next()
	assert.Equal(t, 1, lastCalls)

	// 离开末页再回来，重新触发
	p.Prev()
	p.Next()
	assert.Equal(t, 2, lastCalls)

	p.SetPage(1)
	assert.Equal(t, 2, firstCalls)
}

func TestPaginator_SinglePageFiresBothCallbacks(t *testing.T) {
	firstCalls, lastCalls := 0, 0
	NewPaginator(1, Options{
		PageSize:    2,
		OnFirstPage: func() { firstCalls++ },
		OnLastPage:  func() { lastCalls++ },
	})
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 1, lastCalls)
}

func TestPaginator_SetPageClamps(t *testing.T) {
	p := NewPaginator(5, Options{PageSize: 2})
	p.SetPage(99)
	assert.Equal(t, 3, p.Page())
	p.SetPage(-4)
	assert.Equal(t, 1, p.Page())
}

func TestPaginator_Controlled(t *testing.T) {
	p := NewPaginator(5, Options{PageSize: 2, Controlled: true})

	// 受控模式下 Next/Prev 不改页码
	p.Next()
	assert.Equal(t, 1, p.Page())

	// 受控模式信任外部页码，不钳制
	p.SetPage(7)
	assert.Equal(t, 7, p.Page())
}

func TestPaginator_ResizeShrinksCurrentPage(t *testing.T) {
	p := NewPaginator(6, Options{PageSize: 2})
	p.SetPage(3)
	p.Resize(2)
	assert.Equal(t, 1, p.TotalPages())
	assert.Equal(t, 1, p.Page())
}
