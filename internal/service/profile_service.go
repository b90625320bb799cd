package service

import (
	"context"
	"sync"
	"time"

	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
)

const profileStateKey = "user-profile"

// UserProfileService 本地用户档案。只有 Anonymous 与 Onboarded 两个状态，
// CompleteOnboarding 与 ResetOnboarding 是仅有的两个状态迁移。
type UserProfileService struct {
	mu      sync.Mutex
	kv      repository.KVStore
	now     func() time.Time
	profile model.UserProfile
}

func NewUserProfileService(kv repository.KVStore) *UserProfileService {
	return &UserProfileService{
		kv:  kv,
		now: time.Now,
	}
}

// Load 恢复持久化档案；无数据或数据损坏时保持 Anonymous 初始态
func (s *UserProfileService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repository.LoadJSON(ctx, s.kv, profileStateKey, &s.profile)
}

// CompleteOnboarding 记录姓名并完成引导，Anonymous→Onboarded 的唯一入口
func (s *UserProfileService) CompleteOnboarding(ctx context.Context, fullName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.profile = model.UserProfile{
		Onboarded:   true,
		FullName:    fullName,
		CompletedAt: &now,
	}
	repository.SaveJSON(ctx, s.kv, profileStateKey, s.profile)
}

// UpdateName 覆盖存储的姓名，不要求已完成引导
func (s *UserProfileService) UpdateName(ctx context.Context, fullName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.FullName = fullName
	repository.SaveJSON(ctx, s.kv, profileStateKey, s.profile)
}

// ResetOnboarding 清空档案回到 Anonymous（登出）
func (s *UserProfileService) ResetOnboarding(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = model.UserProfile{}
	repository.SaveJSON(ctx, s.kv, profileStateKey, s.profile)
}

// GetUserData 读取完整档案。未完成引导或姓名为空时返回缺席（第二返回值 false），
// 调用方必须把"无数据"与"空姓名"当作不同情况处理。
func (s *UserProfileService) GetUserData() (model.UserData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.profile.Onboarded || s.profile.FullName == "" {
		return model.UserData{}, false
	}
	return model.UserData{FullName: s.profile.FullName}, true
}

// Onboarded 当前是否处于 Onboarded 状态
func (s *UserProfileService) Onboarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Onboarded
}

// IsContentRelevantForUser 内容可见性过滤。名单为空表示不限制；
// 用户没有记录姓名时对可见性放行（fail-open），否则要求姓名出现在名单中。
func (s *UserProfileService) IsContentRelevantForUser(requiredFor []string) bool {
	if len(requiredFor) == 0 {
		return true
	}

	s.mu.Lock()
	name := s.profile.FullName
	s.mu.Unlock()

	if name == "" {
		return true
	}
	for _, candidate := range requiredFor {
		if candidate == name {
			return true
		}
	}
	return false
}
