package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"training_portal_backend/internal/catalog"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
)

func testCatalog(defs ...model.ModuleDefinition) catalog.Source {
	return func(context.Context) ([]model.ModuleDefinition, error) {
		return defs, nil
	}
}

func failingCatalog(context.Context) ([]model.ModuleDefinition, error) {
	return nil, errors.New("catalog unreachable")
}

func threeModules() catalog.Source {
	return testCatalog(
		model.ModuleDefinition{ID: 1, Title: "钓鱼邮件识别", Category: "security", Difficulty: model.Beginner},
		model.ModuleDefinition{ID: 2, Title: "密码管理", Category: "security", Difficulty: model.Intermediate},
		model.ModuleDefinition{ID: 3, Title: "数据分级", Category: "compliance", Difficulty: model.Advanced},
	)
}

func newProgressService(t *testing.T, source catalog.Source) (*TrainingProgressService, repository.KVStore) {
	t.Helper()
	kv := repository.NewMemoryKV()
	svc := NewTrainingProgressService(kv, source)
	require.NoError(t, svc.InitializeModules(context.Background()))
	return svc, kv
}

func TestInitializeModules_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.UpdateProgress(ctx, 1, 40))
	require.NoError(t, svc.InitializeModules(ctx))

	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, 40, m.Progress)
	assert.True(t, svc.Initialized())
}

func TestInitializeModules_CatalogFailureIsTerminal(t *testing.T) {
	kv := repository.NewMemoryKV()
	svc := NewTrainingProgressService(kv, failingCatalog)

	require.NoError(t, svc.InitializeModules(context.Background()))
	assert.True(t, svc.Initialized())
	assert.Empty(t, svc.GetModules())
	assert.Equal(t, model.TrainingStats{}, svc.Stats())
}

func TestUpdateProgress_PartialThenComplete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.UpdateProgress(ctx, 1, 50))
	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, 50, m.Progress)
	assert.False(t, m.Completed)
	assert.Nil(t, m.CompletedAt)
	require.NotNil(t, m.LastAccessed)

	require.NoError(t, svc.UpdateProgress(ctx, 1, 100))
	m, err = svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.True(t, m.Completed)
	assert.NotNil(t, m.CompletedAt)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 33, stats.OverallProgress)
}

func TestUpdateProgress_Clamps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.UpdateProgress(ctx, 1, 150))
	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, 100, m.Progress)
	assert.True(t, m.Completed)

	require.NoError(t, svc.UpdateProgress(ctx, 1, -20))
	m, err = svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Progress)
	assert.False(t, m.Completed)
	// 回退出完成态后完成时间被清除
	assert.Nil(t, m.CompletedAt)
}

func TestUpdateProgress_CompletedIffProgressFull(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	for _, p := range []int{0, 1, 50, 99, 100, 99, 100} {
		require.NoError(t, svc.UpdateProgress(ctx, 2, p))
		m, err := svc.GetModuleByID(2)
		require.NoError(t, err)
		assert.Equal(t, p >= 100, m.Completed, "progress=%d", p)
	}
}

func TestCompleteModule_EquivalentToFullProgress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.CompleteModule(ctx, 3))
	m, err := svc.GetModuleByID(3)
	require.NoError(t, err)
	assert.True(t, m.Completed)
	assert.Equal(t, 100, m.Progress)
	assert.NotNil(t, m.CompletedAt)
}

func TestOverallProgress_Rounding(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.CompleteModule(ctx, 1))
	assert.Equal(t, 33, svc.Stats().OverallProgress)

	require.NoError(t, svc.CompleteModule(ctx, 2))
	assert.Equal(t, 67, svc.Stats().OverallProgress)

	require.NoError(t, svc.CompleteModule(ctx, 3))
	assert.Equal(t, 100, svc.Stats().OverallProgress)
}

func TestUpdateTimeSpent_Accumulates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.UpdateTimeSpent(ctx, 1, 30))
	require.NoError(t, svc.UpdateTimeSpent(ctx, 1, 45))
	require.NoError(t, svc.UpdateTimeSpent(ctx, 1, -10))

	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	// 负增量按 0 处理
	assert.Equal(t, 75, m.TimeSpent)
}

func TestUpdateQuizScore_Overwrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.UpdateQuizScore(ctx, 1, 60))
	require.NoError(t, svc.UpdateQuizScore(ctx, 1, 85))

	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	require.NotNil(t, m.QuizScore)
	assert.Equal(t, 85, *m.QuizScore)
}

func TestUnknownModuleID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	assert.ErrorIs(t, svc.UpdateProgress(ctx, 999, 50), util.ErrModuleNotFound)
	assert.ErrorIs(t, svc.UpdateTimeSpent(ctx, 999, 10), util.ErrModuleNotFound)
	_, err := svc.GetModuleByID(999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	// 聚合统计不受影响
	assert.Equal(t, model.TrainingStats{TotalCount: 3}, svc.Stats())
}

func TestResetModule_OnlyTargetAffected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.CompleteModule(ctx, 1))
	require.NoError(t, svc.UpdateQuizScore(ctx, 2, 70))

	require.NoError(t, svc.ResetModule(ctx, 1))

	m1, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, model.ModuleRuntime{}, m1.ModuleRuntime)

	m2, err := svc.GetModuleByID(2)
	require.NoError(t, err)
	require.NotNil(t, m2.QuizScore)
	assert.Equal(t, 70, *m2.QuizScore)
}

func TestResetProgress_KeepsCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	require.NoError(t, svc.CompleteModule(ctx, 1))
	require.NoError(t, svc.CompleteModule(ctx, 2))

	svc.ResetProgress(ctx)

	assert.Equal(t, model.TrainingStats{TotalCount: 3}, svc.Stats())
	for _, m := range svc.GetModules() {
		assert.Equal(t, model.ModuleRuntime{}, m.ModuleRuntime)
		assert.NotEmpty(t, m.Title)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()

	svc := NewTrainingProgressService(kv, threeModules())
	require.NoError(t, svc.InitializeModules(ctx))
	require.NoError(t, svc.CompleteModule(ctx, 1))
	require.NoError(t, svc.UpdateTimeSpent(ctx, 1, 25))
	require.NoError(t, svc.UpdateQuizScore(ctx, 1, 90))
	require.NoError(t, svc.UpdateProgress(ctx, 2, 40))

	// 同一存储上的新实例恢复运行时字段，静态内容来自目录而非存储
	restored := NewTrainingProgressService(kv, threeModules())
	require.NoError(t, restored.InitializeModules(ctx))

	m1, err := restored.GetModuleByID(1)
	require.NoError(t, err)
	assert.True(t, m1.Completed)
	assert.Equal(t, 25, m1.TimeSpent)
	require.NotNil(t, m1.QuizScore)
	assert.Equal(t, 90, *m1.QuizScore)
	assert.Equal(t, "钓鱼邮件识别", m1.Title)

	m2, err := restored.GetModuleByID(2)
	require.NoError(t, err)
	assert.Equal(t, 40, m2.Progress)
	assert.False(t, m2.Completed)

	assert.Equal(t, restored.Stats(), svc.Stats())
}

func TestPersistenceRoundTrip_CatalogContentRefreshed(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()

	svc := NewTrainingProgressService(kv, testCatalog(
		model.ModuleDefinition{ID: 1, Title: "旧标题"},
	))
	require.NoError(t, svc.InitializeModules(ctx))
	require.NoError(t, svc.CompleteModule(ctx, 1))

	// 目录内容更新后，进度保留但标题取新目录的版本
	restored := NewTrainingProgressService(kv, testCatalog(
		model.ModuleDefinition{ID: 1, Title: "新标题"},
	))
	require.NoError(t, restored.InitializeModules(ctx))

	m, err := restored.GetModuleByID(1)
	require.NoError(t, err)
	assert.Equal(t, "新标题", m.Title)
	assert.True(t, m.Completed)
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	svc := NewTrainingProgressService(&brokenKV{}, threeModules())
	require.NoError(t, svc.InitializeModules(ctx))

	require.NoError(t, svc.CompleteModule(ctx, 1))
	m, err := svc.GetModuleByID(1)
	require.NoError(t, err)
	assert.True(t, m.Completed)
	assert.Equal(t, 1, svc.Stats().CompletedCount)
}

func TestClearAllData(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	svc := NewTrainingProgressService(kv, threeModules())
	require.NoError(t, svc.InitializeModules(ctx))
	require.NoError(t, svc.CompleteModule(ctx, 1))

	require.NoError(t, svc.ClearAllData(ctx))

	assert.True(t, svc.Initialized())
	assert.Equal(t, model.TrainingStats{TotalCount: 3}, svc.Stats())

	_, ok, err := kv.Get(ctx, "training-progress")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilters(t *testing.T) {
	svc, _ := newProgressService(t, threeModules())

	assert.Len(t, svc.GetModulesByCategory("security"), 2)
	assert.Len(t, svc.GetModulesByCategory("compliance"), 1)
	assert.Empty(t, svc.GetModulesByCategory("missing"))

	assert.Len(t, svc.GetModulesByDifficulty(model.Beginner), 1)
	assert.Len(t, svc.GetModulesByDifficulty(model.Advanced), 1)
}

func TestOnChange_FiresOnlyOnStatsChange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	var events []model.TrainingStats
	svc.OnChange(func(stats model.TrainingStats) {
		events = append(events, stats)
	})

	// 不改变 completed 计数的变更不触发
	require.NoError(t, svc.UpdateTimeSpent(ctx, 1, 10))
	assert.Empty(t, events)

	require.NoError(t, svc.CompleteModule(ctx, 1))
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].CompletedCount)

	// 再次完成同一模块，统计不变，不触发
	require.NoError(t, svc.CompleteModule(ctx, 1))
	assert.Len(t, events, 1)
}

func TestUpdateModuleAccess_OnlyTouchesTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProgressService(t, threeModules())

	accessed := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return accessed }

	require.NoError(t, svc.UpdateModuleAccess(ctx, 2))

	m, err := svc.GetModuleByID(2)
	require.NoError(t, err)
	require.NotNil(t, m.LastAccessed)
	assert.Equal(t, accessed, *m.LastAccessed)
	assert.Equal(t, 0, m.Progress)
	assert.False(t, m.Completed)
}

// brokenKV 所有操作都失败的存储，用于验证持久化故障的容错
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("kv unavailable")
}

func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("kv unavailable")
}

func (brokenKV) Remove(context.Context, string) error {
	return errors.New("kv unavailable")
}
