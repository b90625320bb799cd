package controller

import (
	"fmt"
	"io"
	"strings"

	"training_portal_backend/internal/model"
	"training_portal_backend/internal/service"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
	ProfileService     *service.UserProfileService
	StorageService     *service.StorageService
}

func NewCertificateController(
	certificateService *service.CertificateService,
	profileService *service.UserProfileService,
	storageService *service.StorageService,
) *CertificateController {
	return &CertificateController{
		CertificateService: certificateService,
		ProfileService:     profileService,
		StorageService:     storageService,
	}
}

// @Summary 完成情况摘要
// @Description 轻量聚合读取，供前端在提取完整快照前做资格判断
// @Tags 证书
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/certificates/summary [get]
func (c *CertificateController) GetSummary(ctx *gin.Context) {
	util.Success(ctx, c.CertificateService.GetCompletionSummary())
}

// @Summary 提取完成快照
// @Description 整体进度未达100%时返回"不可用"而非错误
// @Tags 证书
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/certificates/completion [get]
func (c *CertificateController) ExtractCompletionData(ctx *gin.Context) {
	data, ok := c.CertificateService.ExtractCompletionData()
	if !ok {
		util.Success(ctx, gin.H{"available": false})
		return
	}
	util.Success(ctx, gin.H{"available": true, "completion": data})
}

type generateCertificateRequest struct {
	FullName string `json:"fullName"`
}

// @Summary 生成证书
// @Description 构造完成快照并签发证书记录；姓名缺省时回退到档案或已保存的用户数据
// @Tags 证书
// @Accept json
// @Produce json
// @Param body body generateCertificateRequest false "证书抬头"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/certificates [post]
func (c *CertificateController) GenerateCertificate(ctx *gin.Context) {
	var req generateCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err != io.EOF {
		util.BadRequest(ctx, err.Error())
		return
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		if data, ok := c.ProfileService.GetUserData(); ok {
			name = data.FullName
		} else if saved, ok := c.CertificateService.SavedUserData(); ok {
			name = saved.FullName
		}
	}
	if name == "" {
		util.BadRequest(ctx, util.ErrProfileIncomplete.Error())
		return
	}

	c.CertificateService.SetGenerating(true)
	defer c.CertificateService.SetGenerating(false)

	cert, err := c.CertificateService.GenerateCertificate(ctx.Request.Context(), model.UserData{FullName: name})
	if err != nil {
		util.Conflict(ctx, util.ErrCertificateUnavailable.Error())
		return
	}

	monitoring.CertificatesIssued.Inc()
	util.Created(ctx, cert)
}

// @Summary 签发历史
// @Tags 证书
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/certificates [get]
func (c *CertificateController) GetHistory(ctx *gin.Context) {
	util.Success(ctx, gin.H{"certificates": c.CertificateService.History()})
}

type saveUserDataRequest struct {
	FullName string `json:"fullName" binding:"required"`
}

// @Summary 保存证书预填数据
// @Tags 证书
// @Accept json
// @Produce json
// @Param body body saveUserDataRequest true "用户数据"
// @Success 200 {object} util.Response
// @Router /api/certificates/user-data [put]
func (c *CertificateController) SaveUserData(ctx *gin.Context) {
	var req saveUserDataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	c.CertificateService.SaveUserData(ctx.Request.Context(), model.UserData{FullName: strings.TrimSpace(req.FullName)})
	util.Success(ctx, gin.H{"saved": true})
}

type certificateFlagsRequest struct {
	Generating *bool `json:"isGenerating"`
	ShowModal  *bool `json:"showModal"`
}

// @Summary 更新流程标志
// @Description 证书生成流程的瞬态协调标志，不持久化
// @Tags 证书
// @Accept json
// @Produce json
// @Param body body certificateFlagsRequest true "标志"
// @Success 200 {object} util.Response
// @Router /api/certificates/flags [patch]
func (c *CertificateController) UpdateFlags(ctx *gin.Context) {
	var req certificateFlagsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.Generating != nil {
		c.CertificateService.SetGenerating(*req.Generating)
	}
	if req.ShowModal != nil {
		c.CertificateService.SetShowModal(*req.ShowModal)
	}

	generating, showModal := c.CertificateService.Flags()
	util.Success(ctx, gin.H{"isGenerating": generating, "showModal": showModal})
}

// @Summary 上传渲染好的证书文件
// @Description 客户端渲染完成后上传成品文档，按证书编号归档
// @Tags 证书
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "证书编号"
// @Param file formData file true "证书文件"
// @Success 200 {object} util.Response
// @Router /api/certificates/{id}/artifact [post]
func (c *CertificateController) UploadArtifact(ctx *gin.Context) {
	certID := ctx.Param("id")

	found := false
	for _, cert := range c.CertificateService.History() {
		if cert.ID == certID {
			found = true
			break
		}
	}
	if !found {
		util.Error(ctx, 404, util.ErrArtifactNotFound.Error())
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing certificate file")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("certificates/%s%s", certID, artifactExt(header.Filename))
	url, err := c.StorageService.Provider.Upload(ctx.Request.Context(), filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

func artifactExt(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ".pdf"
}
