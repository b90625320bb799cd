package controller

import (
	"errors"
	"strconv"

	"training_portal_backend/internal/model"
	"training_portal_backend/internal/pagination"
	"training_portal_backend/internal/service"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TrainingController struct {
	ProgressService *service.TrainingProgressService
	ProfileService  *service.UserProfileService
}

func NewTrainingController(progressService *service.TrainingProgressService, profileService *service.UserProfileService) *TrainingController {
	return &TrainingController{
		ProgressService: progressService,
		ProfileService:  profileService,
	}
}

// @Summary 获取培训模块列表
// @Description 返回对当前用户可见的模块，支持按分类与难度过滤
// @Tags 培训模块
// @Produce json
// @Param category query string false "分类"
// @Param difficulty query string false "难度"
// @Success 200 {object} util.Response
// @Router /api/training/modules [get]
func (c *TrainingController) ListModules(ctx *gin.Context) {
	var modules []model.Module
	switch {
	case ctx.Query("category") != "":
		modules = c.ProgressService.GetModulesByCategory(ctx.Query("category"))
	case ctx.Query("difficulty") != "":
		modules = c.ProgressService.GetModulesByDifficulty(model.Difficulty(ctx.Query("difficulty")))
	default:
		modules = c.ProgressService.GetModules()
	}

	visible := make([]model.Module, 0, len(modules))
	for _, m := range modules {
		if c.ProfileService.IsContentRelevantForUser(m.RequiredFor) {
			visible = append(visible, m)
		}
	}

	util.Success(ctx, gin.H{
		"modules":     visible,
		"stats":       c.ProgressService.Stats(),
		"initialized": c.ProgressService.Initialized(),
	})
}

// @Summary 获取单个模块
// @Tags 培训模块
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/training/modules/{id} [get]
func (c *TrainingController) GetModule(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	module, err := c.ProgressService.GetModuleByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, module)
}

// @Summary 获取章节分页方案
// @Description 基于内容复杂度计算章节是否需要分页以及每页内容
// @Tags 培训模块
// @Produce json
// @Param id path int true "模块ID"
// @Param index path int true "章节序号(从0开始)"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/training/modules/{id}/sections/{index}/pages [get]
func (c *TrainingController) GetSectionPages(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	module, err := c.ProgressService.GetModuleByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 || index >= len(module.Sections) {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, pagination.BuildPlan(module.Sections[index], pagination.DefaultPageSize))
}

type updateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// @Summary 更新模块进度
// @Description 设置进度百分比，达到100视为完成；输入会被钳制到[0,100]
// @Tags 培训模块
// @Accept json
// @Produce json
// @Param id path int true "模块ID"
// @Param body body updateProgressRequest true "进度"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/training/modules/{id}/progress [put]
func (c *TrainingController) UpdateProgress(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateProgress(ctx.Request.Context(), id, *req.Progress); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

// @Summary 完成模块
// @Tags 培训模块
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/training/modules/{id}/complete [post]
func (c *TrainingController) CompleteModule(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	if err := c.ProgressService.CompleteModule(ctx.Request.Context(), id); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

// @Summary 记录模块访问
// @Description 仅刷新最近访问时间，不改变进度
// @Tags 培训模块
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/training/modules/{id}/access [post]
func (c *TrainingController) UpdateModuleAccess(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	if err := c.ProgressService.UpdateModuleAccess(ctx.Request.Context(), id); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

type timeSpentRequest struct {
	Delta int `json:"delta" binding:"min=0"`
}

// @Summary 累加学习时长
// @Tags 培训模块
// @Accept json
// @Produce json
// @Param id path int true "模块ID"
// @Param body body timeSpentRequest true "时长增量"
// @Success 200 {object} util.Response
// @Router /api/training/modules/{id}/time-spent [post]
func (c *TrainingController) UpdateTimeSpent(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	var req timeSpentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateTimeSpent(ctx.Request.Context(), id, req.Delta); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

type quizScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

// @Summary 记录测验得分
// @Description 覆盖写入，不做累加
// @Tags 培训模块
// @Accept json
// @Produce json
// @Param id path int true "模块ID"
// @Param body body quizScoreRequest true "得分"
// @Success 200 {object} util.Response
// @Router /api/training/modules/{id}/quiz-score [put]
func (c *TrainingController) UpdateQuizScore(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	var req quizScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateQuizScore(ctx.Request.Context(), id, *req.Score); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

// @Summary 重置单个模块
// @Tags 培训模块
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/training/modules/{id}/reset [post]
func (c *TrainingController) ResetModule(ctx *gin.Context) {
	id, ok := parseModuleID(ctx)
	if !ok {
		return
	}

	if err := c.ProgressService.ResetModule(ctx.Request.Context(), id); err != nil {
		c.handleProgressError(ctx, err)
		return
	}
	c.respondWithModule(ctx, id)
}

// @Summary 重置全部进度
// @Description 清空所有模块的运行时字段，目录内容不受影响
// @Tags 培训模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/training/progress/reset [post]
func (c *TrainingController) ResetProgress(ctx *gin.Context) {
	c.ProgressService.ResetProgress(ctx.Request.Context())
	util.Success(ctx, c.ProgressService.Stats())
}

// @Summary 清空全部数据
// @Description 破坏性操作：清除持久化存储并重新加载目录
// @Tags 培训模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/training/data [delete]
func (c *TrainingController) ClearAllData(ctx *gin.Context) {
	if err := c.ProgressService.ClearAllData(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, c.ProgressService.Stats())
}

// @Summary 获取聚合统计
// @Tags 培训模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/training/stats [get]
func (c *TrainingController) GetStats(ctx *gin.Context) {
	util.Success(ctx, c.ProgressService.Stats())
}

func parseModuleID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return 0, false
	}
	return uint(id), true
}

func (c *TrainingController) handleProgressError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrModuleNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}

func (c *TrainingController) respondWithModule(ctx *gin.Context, id uint) {
	module, err := c.ProgressService.GetModuleByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{
		"module": module,
		"stats":  c.ProgressService.Stats(),
	})
}
