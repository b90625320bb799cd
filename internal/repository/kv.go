package repository

import (
	"context"
	"encoding/json"

	"training_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// KVStore 持久化键值层。Get 的三态返回区分"有值/无值/后端故障"，
// Set 可能失败，调用方决定失败是否可忽略。
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger 可选的健康检查能力，内存后端无需实现
type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadJSON 读取并反序列化持久化状态。缺失、损坏的 JSON 与后端读取失败
// 一律视为"无持久化数据"，返回 false 并保持 out 原值不变。
func LoadJSON(ctx context.Context, store KVStore, key string, out interface{}) bool {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Log.Warn("kv read failed, falling back to defaults",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Log.Warn("kv entry corrupted, falling back to defaults",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SaveJSON 序列化并写入持久化状态。写入失败只记录日志，
// 内存状态始终是权威状态，持久化副本允许静默落后。
func SaveJSON(ctx context.Context, store KVStore, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("kv serialize failed, in-memory state unaffected",
			zap.String("key", key), zap.Error(err))
		return
	}
	if err := store.Set(ctx, key, string(raw)); err != nil {
		logger.Log.Error("kv write failed, in-memory state unaffected",
			zap.String("key", key), zap.Error(err))
	}
}
