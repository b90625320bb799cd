package controller

import (
	"strings"

	"training_portal_backend/internal/service"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	ProfileService     *service.UserProfileService
	CertificateService *service.CertificateService
}

func NewUserController(profileService *service.UserProfileService, certificateService *service.CertificateService) *UserController {
	return &UserController{
		ProfileService:     profileService,
		CertificateService: certificateService,
	}
}

type onboardingRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

// @Summary 完成引导
// @Description 记录用户姓名并完成一次性引导流程
// @Tags 用户档案
// @Accept json
// @Produce json
// @Param body body onboardingRequest true "引导信息"
// @Success 200 {object} util.Response
// @Router /api/profile/onboarding [post]
func (c *UserController) CompleteOnboarding(ctx *gin.Context) {
	var req onboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		util.BadRequest(ctx, "fullName must not be blank")
		return
	}

	c.ProfileService.CompleteOnboarding(ctx.Request.Context(), name)
	util.Success(ctx, gin.H{"onboarded": true, "fullName": name})
}

type updateNameRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

// @Summary 更新姓名
// @Tags 用户档案
// @Accept json
// @Produce json
// @Param body body updateNameRequest true "姓名"
// @Success 200 {object} util.Response
// @Router /api/profile/name [put]
func (c *UserController) UpdateName(ctx *gin.Context) {
	var req updateNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	c.ProfileService.UpdateName(ctx.Request.Context(), strings.TrimSpace(req.FullName))
	util.Success(ctx, gin.H{"fullName": strings.TrimSpace(req.FullName)})
}

// @Summary 读取用户数据
// @Description 只有完成引导且姓名非空时才返回档案，否则返回 404
// @Tags 用户档案
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetUserData(ctx *gin.Context) {
	data, ok := c.ProfileService.GetUserData()
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, data)
}

// @Summary 重置引导（登出）
// @Description 清空档案并同时清除证书侧缓存的用户数据
// @Tags 用户档案
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/profile [delete]
func (c *UserController) ResetOnboarding(ctx *gin.Context) {
	c.ProfileService.ResetOnboarding(ctx.Request.Context())
	c.CertificateService.ClearData(ctx.Request.Context())
	util.Success(ctx, gin.H{"onboarded": false})
}
