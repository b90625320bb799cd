package catalog

import "training_portal_backend/internal/model"

// moduleIDs 决定目录的展示顺序
var moduleIDs = []uint{1, 2, 3, 4}

var definitions = map[uint]model.ModuleDefinition{
	1: {
		ID:          1,
		Title:       "信息安全基础",
		Description: "了解信息安全的核心概念、常见威胁与每个员工的安全职责。",
		Category:    "security",
		Difficulty:  model.Beginner,
		Objectives: []string{
			"理解保密性、完整性与可用性三要素",
			"识别工作中常见的安全威胁",
			"掌握基础的账号与口令管理规范",
		},
		Sections: []model.ContentSection{
			{
				Title: "为什么安全与每个人有关",
				Blocks: []model.ContentBlock{
					{Type: model.BlockText, Text: "绝大多数安全事件都始于一次普通员工的日常操作：一封邮件、一个链接、一块U盘。安全不是IT部门的专属职责。"},
					{Type: model.BlockCallout, Title: "关键提示", Text: "安全链条的强度取决于最薄弱的一环，而这一环往往是人。"},
					{Type: model.BlockList, Title: "本节要点", Items: []string{
						"安全事件的主要入口是人为失误",
						"每位员工都是防线的一部分",
						"发现可疑情况应立即上报",
					}},
				},
			},
			{
				Title: "核心概念",
				Blocks: []model.ContentBlock{
					{Type: model.BlockText, Text: "信息安全围绕三个基本目标展开，通常称为 CIA 三要素。"},
					{Type: model.BlockSubsection, Title: "保密性", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "只有授权的人才能访问信息。最常见的破坏方式是口令泄露与越权访问。"},
						{Type: model.BlockList, Items: []string{"最小权限原则", "不共享账号", "屏幕锁定习惯"}},
					}},
					{Type: model.BlockSubsection, Title: "完整性", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "信息在存储与传输过程中不被未授权地篡改。"},
						{Type: model.BlockExample, Title: "示例", Text: "财务同事收到一封\"供应商换了收款账户\"的邮件，未经电话核实就修改了付款信息——这是典型的完整性攻击。"},
					}},
					{Type: model.BlockSubsection, Title: "可用性", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "授权用户在需要时能够访问信息与系统。勒索软件正是针对可用性的攻击。"},
					}},
					{Type: model.BlockSubsection, Title: "风险与资产", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "并非所有信息价值相同。对客户数据、源代码与财务数据要采用更高的保护等级。"},
						{Type: model.BlockList, Items: []string{"公开", "内部", "机密", "绝密"}},
					}},
				},
			},
		},
		Quiz: []model.QuizQuestion{
			{
				Question:     "CIA 三要素不包括以下哪一项？",
				Options:      []string{"保密性", "完整性", "可审计性", "可用性"},
				CorrectIndex: 2,
			},
			{
				Question:     "发现可疑邮件时首先应该做什么？",
				Options:      []string{"转发给同事确认", "点击链接查看详情", "按流程上报安全团队", "直接删除并忽略"},
				CorrectIndex: 2,
			},
		},
	},
	2: {
		ID:          2,
		Title:       "钓鱼邮件与社会工程",
		Description: "学会识别钓鱼邮件、电话诈骗等社会工程手段，并掌握正确的处置流程。",
		Category:    "security",
		Difficulty:  model.Intermediate,
		Objectives: []string{
			"识别钓鱼邮件的典型特征",
			"了解鱼叉式钓鱼与商务邮件诈骗",
			"掌握可疑邮件的上报流程",
		},
		Sections: []model.ContentSection{
			{
				Title: "识别钓鱼邮件",
				Blocks: []model.ContentBlock{
					{Type: model.BlockText, Text: "钓鱼邮件试图诱导你点击链接、打开附件或泄露凭据。攻击者会伪造发件人、制造紧迫感。"},
					{Type: model.BlockList, Title: "典型特征", Items: []string{
						"发件人域名与显示名称不一致",
						"制造紧急或威胁性的语气",
						"要求提供口令或验证码",
						"链接地址与悬停显示不符",
					}},
					{Type: model.BlockExample, Title: "案例", Text: "\"您的邮箱将在24小时内停用，请立即点击验证\"——正规IT部门不会通过邮件索要口令。"},
					{Type: model.BlockCallout, Title: "记住", Text: "宁可多花两分钟电话核实，也不要在压力下点击。"},
				},
			},
			{
				Title: "社会工程的其他形式",
				Blocks: []model.ContentBlock{
					{Type: model.BlockSubsection, Title: "电话诈骗", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "冒充领导、IT支持或执法机构的电话，核心都是绕过流程获取信息或转账。"},
					}},
					{Type: model.BlockSubsection, Title: "物理渗透", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "尾随进入办公区、伪装成维修人员。对陌生面孔主动询问并核实工牌。"},
						{Type: model.BlockList, Items: []string{"不为陌生人刷卡开门", "访客须全程陪同"}},
					}},
					{Type: model.BlockSubsection, Title: "即时通讯钓鱼", Blocks: []model.ContentBlock{
						{Type: model.BlockText, Text: "通过即时通讯工具冒充同事发送链接或索要文件，注意核实账号真实性。"},
					}},
				},
			},
		},
		Quiz: []model.QuizQuestion{
			{
				Question:     "收到自称IT部门索要口令的邮件，正确做法是？",
				Options:      []string{"提供口令配合工作", "通过官方渠道核实后上报", "回复邮件询问原因", "转发给全部门提醒"},
				CorrectIndex: 1,
			},
			{
				Question:     "以下哪项是钓鱼邮件的典型特征？",
				Options:      []string{"发件人是通讯录联系人", "语气平和无时间要求", "链接悬停地址与文字不符", "无任何附件"},
				CorrectIndex: 2,
			},
			{
				Question:     "陌生人尾随你进入门禁区域，应该？",
				Options:      []string{"礼貌地帮忙扶门", "假装没看见", "询问来意并要求出示工牌", "事后再报告"},
				CorrectIndex: 2,
			},
		},
	},
	3: {
		ID:          3,
		Title:       "数据保护与隐私合规",
		Description: "掌握个人数据与敏感数据的分类、存储、传输与销毁要求。",
		Category:    "compliance",
		Difficulty:  model.Intermediate,
		Objectives: []string{
			"区分个人数据与敏感个人数据",
			"掌握数据最小化与保留期限原则",
			"了解数据泄露的上报时限",
		},
		Sections: []model.ContentSection{
			{
				Title: "数据分类与处理",
				Blocks: []model.ContentBlock{
					{Type: model.BlockText, Text: "处理客户与员工数据前，先确认数据级别与处理依据。"},
					{Type: model.BlockList, Title: "基本原则", Items: []string{
						"目的限定：只为声明的目的使用数据",
						"最小化：只收集必要字段",
						"保留限制：到期必须删除或匿名化",
					}},
					{Type: model.BlockCallout, Title: "注意", Text: "把含个人数据的表格导出到个人设备即构成违规，无论是否造成泄露。"},
					{Type: model.BlockExample, Title: "示例", Text: "市场部想复用销售线索做新活动——必须先确认原始收集目的是否覆盖该用途。"},
				},
			},
		},
		Quiz: []model.QuizQuestion{
			{
				Question:     "发现疑似数据泄露后，应在多长时间内上报？",
				Options:      []string{"下次例会时", "立即上报", "一周内", "确认影响范围后"},
				CorrectIndex: 1,
			},
			{
				Question:     "数据最小化原则的含义是？",
				Options:      []string{"尽量压缩存储空间", "只收集实现目的所必需的数据", "减少数据备份份数", "缩短口令长度"},
				CorrectIndex: 1,
			},
		},
	},
	4: {
		ID:          4,
		Title:       "安全事件响应（IT 专项）",
		Description: "面向IT与运维岗位的事件分级、处置与复盘流程。",
		Category:    "security",
		Difficulty:  model.Advanced,
		Objectives: []string{
			"掌握事件分级标准",
			"了解隔离与取证的先后顺序",
			"能够撰写事件复盘报告",
		},
		// 仅对 IT 岗位名单可见
		RequiredFor: []string{"IT Operations", "Engineering"},
		Sections: []model.ContentSection{
			{
				Title: "事件响应流程",
				Blocks: []model.ContentBlock{
					{Type: model.BlockText, Text: "事件响应的目标是限制损失、保留证据、尽快恢复业务，三者的优先级取决于事件等级。"},
					{Type: model.BlockList, Title: "标准阶段", Items: []string{
						"检测与确认", "分级与通报", "遏制与隔离", "根除与恢复", "复盘与改进",
					}},
					{Type: model.BlockExample, Title: "示例", Text: "一台终端确认感染勒索软件：先断网隔离保留现场，再评估横向扩散，最后从备份恢复。"},
				},
			},
		},
		Quiz: []model.QuizQuestion{
			{
				Question:     "确认终端感染勒索软件后的第一步是？",
				Options:      []string{"立即重装系统", "断网隔离并保留现场", "尝试解密文件", "关机拔电源"},
				CorrectIndex: 1,
			},
		},
	},
}
