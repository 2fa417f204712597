package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
	Storage         *service.StorageService
}

func NewResourceController(resourceService *service.ResourceService, storage *service.StorageService) *ResourceController {
	return &ResourceController{
		ResourceService: resourceService,
		Storage:         storage,
	}
}

// UploadResourceRequest defines model for resource upload
// swagger:model UploadResourceRequest
type UploadResourceRequest struct {
	Title   string `json:"title" form:"title"`
	Type    string `json:"type" form:"type"`
	Content string `json:"content" form:"content"`
}

// CreateResource godoc
// @Summary 上传教学资源
// @Tags 资源
// @Accept  json,mpfd
// @Security ApiKeyAuth
// @Param title formData string true "标题"
// @Param type formData string true "类型" Enums(material, module, book)
// @Param file formData file false "附件"
// @Router /api/teacher/resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	var req UploadResourceRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attachment, ok := storeUpload(ctx, c.Storage, "file")
	if !ok {
		return
	}

	id, err := c.ResourceService.CreateResource(ctx, claims.UserID, service.ResourceInput{
		Type:       model.ResourceType(req.Type),
		Title:      req.Title,
		Content:    req.Content,
		Attachment: attachment,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	resp := gin.H{"id": id}
	if attachment != nil {
		resp["url"] = c.Storage.GetURL(*attachment)
	}
	util.Created(ctx, resp)
}

// @Param type query string false "类型" Enums(material, module, book)
// @Router /api/teacher/resources [get]
func (c *ResourceController) ListMyResources(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	resources, err := c.ResourceService.ListTeacherResources(ctx, claims.UserID, model.ResourceType(ctx.Query("type")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resources)
}

// ListResources 首页资源：学生看到所在课程老师的资源
// @Router /api/resources [get]
func (c *ResourceController) ListResources(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	resources, err := c.ResourceService.ListResources(ctx, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resources)
}

// GetResource 查看单个资源
// @Router /api/resources/{id} [get]
func (c *ResourceController) GetResource(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	res, err := c.ResourceService.GetResource(ctx, claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	resp := gin.H{"resource": res}
	if res.Attachment != nil {
		resp["url"] = c.Storage.GetURL(*res.Attachment)
	}
	util.Success(ctx, resp)
}

// @Router /api/teacher/resources/{id} [delete]
func (c *ResourceController) DeleteResource(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.ResourceService.DeleteResource(ctx, claims.UserID, id)
	respondChanged(ctx, deleted, err)
}
