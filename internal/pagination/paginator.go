package pagination

// Options 翻页器配置。OnFirstPage / OnLastPage 在"到达"边界时各触发一次，
// 离开边界后重新武装；单页内容在创建时即触发 OnLastPage（第 1 页同时是末页）。
// Controlled 为 true 时翻页器不持有页码，完全信任 SetPage 传入的外部页码。
type Options struct {
	PageSize    int
	Controlled  bool
	OnFirstPage func()
	OnLastPage  func()
}

// Paginator 翻页状态机。页码从 1 开始，内部模式下始终被钳制在 [1, totalPages]。
type Paginator struct {
	opts       Options
	totalPages int
	page       int

	firstFired bool
	lastFired  bool
}

// NewPaginator 基于参与分页的条目数创建翻页器，初始位于第 1 页
func NewPaginator(itemCount int, opts Options) *Paginator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	p := &Paginator{
		opts:       opts,
		totalPages: TotalPages(itemCount, opts.PageSize),
		page:       1,
	}
	p.arrived()
	return p
}

func (p *Paginator) Page() int       { return p.page }
func (p *Paginator) TotalPages() int { return p.totalPages }

// Next 前进一页；已在末页时为无操作，不重复触发边界回调
func (p *Paginator) Next() {
	if p.opts.Controlled {
		return
	}
	if p.page >= p.totalPages {
		return
	}
	p.page++
	p.arrived()
}

// Prev 后退一页；已在首页时为无操作
func (p *Paginator) Prev() {
	if p.opts.Controlled {
		return
	}
	if p.page <= 1 {
		return
	}
	p.page--
	p.arrived()
}

// SetPage 设置当前页。内部模式下钳制到合法区间；
// 外部受控模式信任调用方传入的页码，越界钳制由控制方负责。
func (p *Paginator) SetPage(page int) {
	if !p.opts.Controlled {
		if page < 1 {
			page = 1
		}
		if page > p.totalPages {
			page = p.totalPages
		}
	}
	if page == p.page {
		return
	}
	p.page = page
	p.arrived()
}

// Resize 内容变化后更新总页数；总页数收缩时当前页重新钳制
func (p *Paginator) Resize(itemCount int) {
	p.totalPages = TotalPages(itemCount, p.opts.PageSize)
	if !p.opts.Controlled && p.page > p.totalPages {
		p.page = p.totalPages
		p.arrived()
	}
}

// arrived 在页码变化后评估边界回调；离开边界即重新武装
func (p *Paginator) arrived() {
	if p.page == 1 {
		if !p.firstFired && p.opts.OnFirstPage != nil {
			p.opts.OnFirstPage()
		}
		p.firstFired = true
	} else {
		p.firstFired = false
	}

	if p.page >= p.totalPages {
		if !p.lastFired && p.opts.OnLastPage != nil {
			p.opts.OnLastPage()
		}
		p.lastFired = true
	} else {
		p.lastFired = false
	}
}
