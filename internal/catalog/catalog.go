package catalog

import (
	"context"
	"fmt"

	"training_portal_backend/internal/model"
)

// Source 静态目录加载函数；目录在构建期固定，id 稳定且可枚举
type Source func(ctx context.Context) ([]model.ModuleDefinition, error)

// Static 返回内置目录的深拷贝，调用方可以安全持有返回值
func Static(ctx context.Context) ([]model.ModuleDefinition, error) {
	defs := make([]model.ModuleDefinition, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		def, err := Load(ctx, id)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Load 按 id 解析单个模块定义
func Load(_ context.Context, id uint) (model.ModuleDefinition, error) {
	def, ok := definitions[id]
	if !ok {
		return model.ModuleDefinition{}, fmt.Errorf("catalog: unknown module id %d", id)
	}
	return cloneDefinition(def), nil
}

// ModuleIDs 目录内全部模块 id，按展示顺序排列
func ModuleIDs() []uint {
	ids := make([]uint, len(moduleIDs))
	copy(ids, moduleIDs)
	return ids
}

func cloneDefinition(def model.ModuleDefinition) model.ModuleDefinition {
	out := def
	out.Objectives = append([]string(nil), def.Objectives...)
	out.RequiredFor = append([]string(nil), def.RequiredFor...)
	out.Sections = make([]model.ContentSection, len(def.Sections))
	for i, s := range def.Sections {
		out.Sections[i] = model.ContentSection{
			Title:  s.Title,
			Blocks: cloneBlocks(s.Blocks),
		}
	}
	out.Quiz = make([]model.QuizQuestion, len(def.Quiz))
	for i, q := range def.Quiz {
		out.Quiz[i] = model.QuizQuestion{
			Question:     q.Question,
			Options:      append([]string(nil), q.Options...),
			CorrectIndex: q.CorrectIndex,
		}
	}
	return out
}

func cloneBlocks(blocks []model.ContentBlock) []model.ContentBlock {
	if blocks == nil {
		return nil
	}
	out := make([]model.ContentBlock, len(blocks))
	for i, b := range blocks {
		out[i] = model.ContentBlock{
			Type:   b.Type,
			Title:  b.Title,
			Text:   b.Text,
			Items:  append([]string(nil), b.Items...),
			Blocks: cloneBlocks(b.Blocks),
		}
	}
	return out
}
