package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"training_portal_backend/internal/catalog"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
)

type fixedIDGenerator struct {
	id string
}

func (g fixedIDGenerator) NewID() string { return g.id }

func twoModules() catalog.Source {
	return testCatalog(
		model.ModuleDefinition{ID: 1, Title: "钓鱼邮件识别"},
		model.ModuleDefinition{ID: 2, Title: "密码管理"},
	)
}

func newCertificateFixture(t *testing.T, source catalog.Source) (*CertificateService, *TrainingProgressService) {
	t.Helper()
	kv := repository.NewMemoryKV()
	progress := NewTrainingProgressService(kv, source)
	require.NoError(t, progress.InitializeModules(context.Background()))
	cert := NewCertificateService(kv, progress, fixedIDGenerator{id: "cert-001"})
	return cert, progress
}

func TestIsCertificateAvailable(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	assert.False(t, cert.IsCertificateAvailable())

	require.NoError(t, progress.CompleteModule(ctx, 1))
	// 2 个模块完成 1 个，整体 50%，不可用
	assert.False(t, cert.IsCertificateAvailable())

	require.NoError(t, progress.CompleteModule(ctx, 2))
	assert.True(t, cert.IsCertificateAvailable())
}

func TestGetCompletionSummary(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	require.NoError(t, progress.CompleteModule(ctx, 1))
	summary := cert.GetCompletionSummary()
	assert.Equal(t, model.CompletionSummary{
		CompletedCount:  1,
		TotalCount:      2,
		OverallProgress: 50,
	}, summary)

	require.NoError(t, progress.CompleteModule(ctx, 2))
	summary = cert.GetCompletionSummary()
	assert.True(t, summary.IsComplete)
	assert.Equal(t, 100, summary.OverallProgress)
}

func TestExtractCompletionData_UnavailableBelowFull(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	require.NoError(t, progress.CompleteModule(ctx, 1))
	_, ok := cert.ExtractCompletionData()
	assert.False(t, ok)
}

func TestExtractCompletionData_Aggregates(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	progress.now = func() time.Time { return day1 }
	require.NoError(t, progress.CompleteModule(ctx, 1))
	require.NoError(t, progress.UpdateTimeSpent(ctx, 1, 60))
	require.NoError(t, progress.UpdateQuizScore(ctx, 1, 95))

	progress.now = func() time.Time { return day2 }
	require.NoError(t, progress.CompleteModule(ctx, 2))
	require.NoError(t, progress.UpdateTimeSpent(ctx, 2, 90))
	require.NoError(t, progress.UpdateQuizScore(ctx, 2, 85))

	data, ok := cert.ExtractCompletionData()
	require.True(t, ok)
	require.Len(t, data.Modules, 2)
	// 总体完成日期取各模块完成时间的最大值
	assert.Equal(t, day2, data.CompletedAt)
	assert.Equal(t, 150, data.TotalTimeSpent)
	assert.Equal(t, 90, data.OverallScore)
	assert.Equal(t, day1, data.Modules[0].CompletedAt)
	assert.Equal(t, day2, data.Modules[1].CompletedAt)
}

func TestExtractCompletionData_DateFallback(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	progress := NewTrainingProgressService(kv, testCatalog(
		model.ModuleDefinition{ID: 1, Title: "唯一模块"},
	))
	require.NoError(t, progress.InitializeModules(ctx))
	require.NoError(t, progress.CompleteModule(ctx, 1))

	// 人为抹掉完成时间，只留访问时间，验证回退链
	accessed := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	progress.mu.Lock()
	progress.modules[0].CompletedAt = nil
	progress.modules[0].LastAccessed = &accessed
	progress.mu.Unlock()

	cert := NewCertificateService(kv, progress, nil)
	data, ok := cert.ExtractCompletionData()
	require.True(t, ok)
	assert.Equal(t, accessed, data.Modules[0].CompletedAt)

	// 两个时间都缺失时回退到当前时间
	fallbackNow := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cert.now = func() time.Time { return fallbackNow }
	progress.mu.Lock()
	progress.modules[0].LastAccessed = nil
	progress.mu.Unlock()

	data, ok = cert.ExtractCompletionData()
	require.True(t, ok)
	assert.Equal(t, fallbackNow, data.Modules[0].CompletedAt)
}

func TestExtractCompletionData_NoScores(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	require.NoError(t, progress.CompleteModule(ctx, 1))
	require.NoError(t, progress.CompleteModule(ctx, 2))

	data, ok := cert.ExtractCompletionData()
	require.True(t, ok)
	// 没有任何测验成绩时总分为 0
	assert.Equal(t, 0, data.OverallScore)
}

func TestGenerateCertificate(t *testing.T) {
	ctx := context.Background()
	cert, progress := newCertificateFixture(t, twoModules())

	_, err := cert.GenerateCertificate(ctx, model.UserData{FullName: "张三"})
	assert.ErrorIs(t, err, util.ErrCertificateUnavailable)

	require.NoError(t, progress.CompleteModule(ctx, 1))
	require.NoError(t, progress.CompleteModule(ctx, 2))

	issued, err := cert.GenerateCertificate(ctx, model.UserData{FullName: "张三"})
	require.NoError(t, err)
	assert.Equal(t, "cert-001", issued.ID)
	assert.Equal(t, "张三", issued.User.FullName)
	assert.Len(t, issued.Completion.Modules, 2)

	history := cert.History()
	require.Len(t, history, 1)
	assert.Equal(t, issued.ID, history[0].ID)

	saved, ok := cert.SavedUserData()
	require.True(t, ok)
	assert.Equal(t, "张三", saved.FullName)
}

func TestCertificatePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	progress := NewTrainingProgressService(kv, twoModules())
	require.NoError(t, progress.InitializeModules(ctx))
	require.NoError(t, progress.CompleteModule(ctx, 1))
	require.NoError(t, progress.CompleteModule(ctx, 2))

	cert := NewCertificateService(kv, progress, fixedIDGenerator{id: "cert-42"})
	_, err := cert.GenerateCertificate(ctx, model.UserData{FullName: "李四"})
	require.NoError(t, err)
	cert.SetGenerating(true)
	cert.SetShowModal(true)

	restored := NewCertificateService(kv, progress, nil)
	restored.Load(ctx)

	history := restored.History()
	require.Len(t, history, 1)
	assert.Equal(t, "cert-42", history[0].ID)

	saved, ok := restored.SavedUserData()
	require.True(t, ok)
	assert.Equal(t, "李四", saved.FullName)

	// 瞬态标志不持久化
	generating, showModal := restored.Flags()
	assert.False(t, generating)
	assert.False(t, showModal)
}

func TestCertificateClearData(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	progress := NewTrainingProgressService(kv, twoModules())
	require.NoError(t, progress.InitializeModules(ctx))
	require.NoError(t, progress.CompleteModule(ctx, 1))
	require.NoError(t, progress.CompleteModule(ctx, 2))

	cert := NewCertificateService(kv, progress, nil)
	_, err := cert.GenerateCertificate(ctx, model.UserData{FullName: "王五"})
	require.NoError(t, err)
	cert.SetGenerating(true)

	cert.ClearData(ctx)

	assert.Empty(t, cert.History())
	_, ok := cert.SavedUserData()
	assert.False(t, ok)
	generating, _ := cert.Flags()
	assert.False(t, generating)

	_, exists, err := kv.Get(ctx, "certificate-data")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUUIDGenerator_NonEmptyAndUnique(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.NewID(), g.NewID()
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}
