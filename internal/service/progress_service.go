package service

import (
	"context"
	"math"
	"sync"
	"time"

	"training_portal_backend/internal/catalog"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

const progressStateKey = "training-progress"

// persistedModule 只持久化运行时字段；静态内容每次启动都从目录重新合并，
// 保证内容更新无需用户清空存储即可生效
type persistedModule struct {
	ID           uint       `json:"id"`
	Completed    bool       `json:"completed"`
	Progress     int        `json:"progress"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	TimeSpent    int        `json:"timeSpent"`
	QuizScore    *int       `json:"quizScore,omitempty"`
}

type persistedProgressState struct {
	Modules         []persistedModule `json:"modules"`
	CompletedCount  int               `json:"completedModules"`
	TotalCount      int               `json:"totalModules"`
	OverallProgress int               `json:"overallProgress"`
}

// TrainingProgressService 目录与用户进度的唯一事实来源。
// 所有聚合统计在每次变更后同步重算，变更对调用方原子可见。
type TrainingProgressService struct {
	mu     sync.Mutex
	kv     repository.KVStore
	source catalog.Source
	now    func() time.Time

	modules     []model.Module
	stats       model.TrainingStats
	initialized bool

	listeners []func(model.TrainingStats)
}

func NewTrainingProgressService(kv repository.KVStore, source catalog.Source) *TrainingProgressService {
	if source == nil {
		source = catalog.Static
	}
	return &TrainingProgressService{
		kv:     kv,
		source: source,
		now:    time.Now,
	}
}

// InitializeModules 加载静态目录并合并已持久化的进度，整个会话只执行一次。
// 目录加载失败时仍标记为已初始化（空目录的降级终态），避免调用方无限等待。
func (s *TrainingProgressService) InitializeModules(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	defs, err := s.source(ctx)
	if err != nil {
		logger.Log.Error("module catalog load failed, continuing with empty catalog", zap.Error(err))
		s.modules = nil
		s.initialized = true
		s.recomputeLocked()
		return nil
	}

	var persisted persistedProgressState
	runtime := map[uint]persistedModule{}
	if repository.LoadJSON(ctx, s.kv, progressStateKey, &persisted) {
		for _, m := range persisted.Modules {
			runtime[m.ID] = m
		}
	}

	s.modules = make([]model.Module, 0, len(defs))
	for _, def := range defs {
		m := model.Module{ModuleDefinition: def}
		if r, ok := runtime[def.ID]; ok {
			m.ModuleRuntime = model.ModuleRuntime{
				Completed:    r.Completed,
				Progress:     r.Progress,
				LastAccessed: r.LastAccessed,
				CompletedAt:  r.CompletedAt,
				TimeSpent:    r.TimeSpent,
				QuizScore:    r.QuizScore,
			}
		}
		s.modules = append(s.modules, m)
	}

	s.initialized = true
	s.recomputeLocked()
	s.notifyLocked()
	return nil
}

// Initialized 初始化一旦完成不会被重置为 false
func (s *TrainingProgressService) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// UpdateProgress 设置模块进度并刷新访问时间。
// 输入钳制到 [0,100]（相对原有宽容契约的加固，见 DESIGN.md）。
func (s *TrainingProgressService) UpdateProgress(ctx context.Context, moduleID uint, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return s.withModule(ctx, moduleID, func(m *model.Module) {
		now := s.now()
		m.Progress = progress
		m.LastAccessed = &now
		wasCompleted := m.Completed
		m.Completed = progress >= 100
		switch {
		case m.Completed && !wasCompleted:
			m.CompletedAt = &now
		case !m.Completed:
			m.CompletedAt = nil
		}
	})
}

// CompleteModule 显式完成操作，等价于 UpdateProgress(id, 100)
func (s *TrainingProgressService) CompleteModule(ctx context.Context, moduleID uint) error {
	return s.UpdateProgress(ctx, moduleID, 100)
}

// UpdateModuleAccess 仅刷新访问时间，不改变进度
func (s *TrainingProgressService) UpdateModuleAccess(ctx context.Context, moduleID uint) error {
	return s.withModule(ctx, moduleID, func(m *model.Module) {
		now := s.now()
		m.LastAccessed = &now
	})
}

// UpdateTimeSpent 累加学习时长，delta 为非负增量
func (s *TrainingProgressService) UpdateTimeSpent(ctx context.Context, moduleID uint, delta int) error {
	if delta < 0 {
		delta = 0
	}
	return s.withModule(ctx, moduleID, func(m *model.Module) {
		m.TimeSpent += delta
	})
}

// UpdateQuizScore 覆盖写入测验得分，不做累加
func (s *TrainingProgressService) UpdateQuizScore(ctx context.Context, moduleID uint, score int) error {
	return s.withModule(ctx, moduleID, func(m *model.Module) {
		v := score
		m.QuizScore = &v
	})
}

// ResetProgress 清空所有模块的运行时字段，静态目录内容不受影响
func (s *TrainingProgressService) ResetProgress(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.modules {
		s.modules[i].ModuleRuntime = model.ModuleRuntime{}
	}
	s.recomputeLocked()
	s.persistLocked(ctx)
	s.notifyLocked()
}

// ResetModule 清空单个模块的运行时字段，其余模块不受影响
func (s *TrainingProgressService) ResetModule(ctx context.Context, moduleID uint) error {
	return s.withModule(ctx, moduleID, func(m *model.Module) {
		m.ModuleRuntime = model.ModuleRuntime{}
	})
}

// ClearAllData 破坏性全量重置：清除持久化条目并重新加载目录。
// 与 ResetProgress 的区别在于同时清掉底层存储条目，而不是等待下次持久化覆盖。
func (s *TrainingProgressService) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, progressStateKey); err != nil {
		logger.Log.Error("failed to clear persisted progress", zap.Error(err))
	}

	defs, err := s.source(ctx)
	if err != nil {
		logger.Log.Error("catalog reload failed during clear, continuing with empty catalog", zap.Error(err))
		defs = nil
	}

	s.modules = make([]model.Module, 0, len(defs))
	for _, def := range defs {
		s.modules = append(s.modules, model.Module{ModuleDefinition: def})
	}
	s.initialized = true
	s.recomputeLocked()
	s.notifyLocked()
	return nil
}

// GetModuleByID 返回模块的副本
func (s *TrainingProgressService) GetModuleByID(moduleID uint) (model.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.modules {
		if s.modules[i].ID == moduleID {
			return s.modules[i], nil
		}
	}
	return model.Module{}, util.ErrModuleNotFound
}

// GetModules 返回全部模块的快照
func (s *TrainingProgressService) GetModules() []model.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Module(nil), s.modules...)
}

func (s *TrainingProgressService) GetModulesByCategory(category string) []model.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Module
	for _, m := range s.modules {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

func (s *TrainingProgressService) GetModulesByDifficulty(difficulty model.Difficulty) []model.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Module
	for _, m := range s.modules {
		if m.Difficulty == difficulty {
			out = append(out, m)
		}
	}
	return out
}

// Stats 当前聚合统计
func (s *TrainingProgressService) Stats() model.TrainingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Snapshot 供派生层一次性读取模块列表与聚合统计的一致视图
func (s *TrainingProgressService) Snapshot() ([]model.Module, model.TrainingStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Module(nil), s.modules...), s.stats
}

// OnChange 注册聚合统计变更回调；仅在统计值实际变化时触发
func (s *TrainingProgressService) OnChange(fn func(model.TrainingStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// withModule 定位模块并应用变更，随后重算聚合、持久化、通知。
// 未知 id 返回 ErrModuleNotFound，聚合计数不受影响。
func (s *TrainingProgressService) withModule(ctx context.Context, moduleID uint, fn func(*model.Module)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *model.Module
	for i := range s.modules {
		if s.modules[i].ID == moduleID {
			target = &s.modules[i]
			break
		}
	}
	if target == nil {
		return util.ErrModuleNotFound
	}

	before := s.stats
	fn(target)
	s.recomputeLocked()
	s.persistLocked(ctx)
	if s.stats != before {
		s.notifyLocked()
	}
	return nil
}

func (s *TrainingProgressService) recomputeLocked() {
	completed := 0
	for _, m := range s.modules {
		if m.Completed {
			completed++
		}
	}
	total := len(s.modules)
	overall := 0
	if total > 0 {
		overall = int(math.Round(float64(completed) / float64(total) * 100))
	}
	s.stats = model.TrainingStats{
		CompletedCount:  completed,
		TotalCount:      total,
		OverallProgress: overall,
	}
}

func (s *TrainingProgressService) persistLocked(ctx context.Context) {
	state := persistedProgressState{
		Modules:         make([]persistedModule, 0, len(s.modules)),
		CompletedCount:  s.stats.CompletedCount,
		TotalCount:      s.stats.TotalCount,
		OverallProgress: s.stats.OverallProgress,
	}
	for _, m := range s.modules {
		state.Modules = append(state.Modules, persistedModule{
			ID:           m.ID,
			Completed:    m.Completed,
			Progress:     m.Progress,
			LastAccessed: m.LastAccessed,
			CompletedAt:  m.CompletedAt,
			TimeSpent:    m.TimeSpent,
			QuizScore:    m.QuizScore,
		})
	}
	repository.SaveJSON(ctx, s.kv, progressStateKey, state)
}

func (s *TrainingProgressService) notifyLocked() {
	for _, fn := range s.listeners {
		fn(s.stats)
	}
}
