package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math"
	"sync"
	"time"

	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"

	"github.com/google/uuid"
)

const certificateStateKey = "certificate-data"

// IDGenerator 证书编号生成能力，与具体随机源解耦
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator 默认实现：uuid v4，随机源不可用时退化为手工随机字节十六进制编码
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// 兜底：时间戳十六进制，保证仍然返回非空 id
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return hex.EncodeToString(buf)
}

// persistedCertificateState 已保存的用户数据与签发历史；临时 UI 标志不持久化
type persistedCertificateState struct {
	SavedUserData *model.UserData              `json:"savedUserData,omitempty"`
	History       []model.GeneratedCertificate `json:"history"`
}

// CertificateService 证书派生与签发记录。派生部分是训练进度之上的纯读取，
// 从不反向修改进度状态。
type CertificateService struct {
	mu       sync.Mutex
	kv       repository.KVStore
	progress *TrainingProgressService
	ids      IDGenerator
	now      func() time.Time

	savedUserData *model.UserData
	history       []model.GeneratedCertificate
	generating    bool
	showModal     bool
}

func NewCertificateService(kv repository.KVStore, progress *TrainingProgressService, ids IDGenerator) *CertificateService {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &CertificateService{
		kv:       kv,
		progress: progress,
		ids:      ids,
		now:      time.Now,
	}
}

// Load 恢复已保存的用户数据与签发历史
func (s *CertificateService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var state persistedCertificateState
	if repository.LoadJSON(ctx, s.kv, certificateStateKey, &state) {
		s.savedUserData = state.SavedUserData
		s.history = state.History
	}
}

// IsCertificateAvailable 整体进度达到 100% 即可生成证书
func (s *CertificateService) IsCertificateAvailable() bool {
	return s.progress.Stats().OverallProgress >= 100
}

// GetCompletionSummary 轻量聚合读取，独立于完整快照是否可构造
func (s *CertificateService) GetCompletionSummary() model.CompletionSummary {
	stats := s.progress.Stats()
	return model.CompletionSummary{
		CompletedCount:  stats.CompletedCount,
		TotalCount:      stats.TotalCount,
		OverallProgress: stats.OverallProgress,
		IsComplete:      stats.OverallProgress >= 100,
	}
}

// ExtractCompletionData 构造完成快照。整体进度不足 100% 或没有任何已完成
// 模块时返回"不可用"（第二返回值 false），这是正常控制流而非错误。
// 每个模块的完成日期按 完成时间 → 最近访问时间 → 当前时间 逐级回退；
// 总分是已有成绩模块的四舍五入均值，无成绩的模块不计入，全部缺失时为 0。
func (s *CertificateService) ExtractCompletionData() (model.CompletionData, bool) {
	modules, stats := s.progress.Snapshot()
	if stats.OverallProgress < 100 {
		return model.CompletionData{}, false
	}

	now := s.now()
	var records []model.CompletionRecord
	var overall time.Time
	totalTime := 0
	scoreSum, scoreCount := 0, 0

	for _, m := range modules {
		if !m.Completed {
			continue
		}
		completedAt := now
		switch {
		case m.CompletedAt != nil:
			completedAt = *m.CompletedAt
		case m.LastAccessed != nil:
			completedAt = *m.LastAccessed
		}
		records = append(records, model.CompletionRecord{
			ModuleID:    m.ID,
			Title:       m.Title,
			CompletedAt: completedAt,
			Score:       m.QuizScore,
			TimeSpent:   m.TimeSpent,
		})
		if completedAt.After(overall) {
			overall = completedAt
		}
		totalTime += m.TimeSpent
		if m.QuizScore != nil {
			scoreSum += *m.QuizScore
			scoreCount++
		}
	}

	if len(records) == 0 {
		return model.CompletionData{}, false
	}

	overallScore := 0
	if scoreCount > 0 {
		overallScore = int(math.Round(float64(scoreSum) / float64(scoreCount)))
	}

	return model.CompletionData{
		Modules:        records,
		CompletedAt:    overall,
		TotalTimeSpent: totalTime,
		OverallScore:   overallScore,
	}, true
}

// GenerateCertificate 签发证书：构造完成快照、分配编号、写入历史并缓存用户数据
func (s *CertificateService) GenerateCertificate(ctx context.Context, user model.UserData) (model.GeneratedCertificate, error) {
	completion, ok := s.ExtractCompletionData()
	if !ok {
		return model.GeneratedCertificate{}, util.ErrCertificateUnavailable
	}

	cert := model.GeneratedCertificate{
		ID:         s.ids.NewID(),
		IssuedAt:   s.now(),
		User:       user,
		Completion: completion,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, cert)
	s.savedUserData = &user
	s.persistLocked(ctx)
	return cert, nil
}

// AddGeneratedCertificate 追加一条签发记录，历史只增不改
func (s *CertificateService) AddGeneratedCertificate(ctx context.Context, cert model.GeneratedCertificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, cert)
	s.persistLocked(ctx)
}

// SaveUserData 覆盖缓存的证书预填用户数据
func (s *CertificateService) SaveUserData(ctx context.Context, data model.UserData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedUserData = &data
	s.persistLocked(ctx)
}

// SavedUserData 读取缓存的预填数据
func (s *CertificateService) SavedUserData() (model.UserData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedUserData == nil {
		return model.UserData{}, false
	}
	return *s.savedUserData, true
}

// History 签发历史的快照
func (s *CertificateService) History() []model.GeneratedCertificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.GeneratedCertificate(nil), s.history...)
}

// SetGenerating / SetShowModal 证书生成流程的瞬态协调标志，不持久化
func (s *CertificateService) SetGenerating(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = v
}

func (s *CertificateService) SetShowModal(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showModal = v
}

// Flags 当前瞬态标志 (isGenerating, showModal)
func (s *CertificateService) Flags() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating, s.showModal
}

// ClearData 清空用户数据、签发历史与瞬态标志（登出时调用）
func (s *CertificateService) ClearData(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedUserData = nil
	s.history = nil
	s.generating = false
	s.showModal = false
	// 持久化副本清理失败不影响内存状态
	_ = s.kv.Remove(ctx, certificateStateKey)
}

func (s *CertificateService) persistLocked(ctx context.Context) {
	repository.SaveJSON(ctx, s.kv, certificateStateKey, persistedCertificateState{
		SavedUserData: s.savedUserData,
		History:       s.history,
	})
}
