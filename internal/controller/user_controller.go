package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserController serves the admin user management and audit endpoints.
type UserController struct {
	UserService    *service.UserService
	ContentService *service.ContentService
}

func NewUserController(userService *service.UserService, contentService *service.ContentService) *UserController {
	return &UserController{
		UserService:    userService,
		ContentService: contentService,
	}
}

// ListUsers godoc
// @Summary 用户列表（管理员）
// @Tags 管理
// @Security ApiKeyAuth
// @Param role query string false "角色"
// @Param active query bool false "是否启用"
// @Param keyword query string false "姓名或邮箱"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.UserFilter{
		Role:     model.UserRole(ctx.Query("role")),
		Keyword:  ctx.Query("keyword"),
		Page:     page,
		PageSize: limit,
	}
	if v, err := strconv.ParseBool(ctx.Query("active")); err == nil {
		filter.Active = &v
	}

	users, total, err := c.UserService.ListUsers(ctx, filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.GetUser(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// CreateUser lets an admin create any role, including other admins.
// @Router /api/admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.NewUserInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	id, err := c.UserService.CreateUser(ctx, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": id})
}

// @Router /api/admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req service.ProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.UserService.UpdateProfile(ctx, id, req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type SetRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// @Router /api/admin/users/{id}/role [put]
func (c *UserController) SetRole(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.UserService.SetRole(ctx, id, req.Role); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SoftDelete 停用用户并保存快照
// @Router /api/admin/users/{id} [delete]
func (c *UserController) SoftDelete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	changed, err := c.UserService.SoftDelete(ctx, id, &claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deactivated": changed})
}

// Purge 彻底删除用户及其所有数据
// @Router /api/admin/users/{id}/purge [delete]
func (c *UserController) Purge(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	if id == claims.UserID {
		util.BadRequest(ctx, "cannot purge your own account")
		return
	}
	if err := c.UserService.Purge(ctx, id, &claims.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Router /api/admin/deleted-users [get]
func (c *UserController) ListDeletedUsers(ctx *gin.Context) {
	list, err := c.UserService.ListDeletedUsers(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Router /api/admin/deleted-users/{id}/restore [post]
func (c *UserController) Restore(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, err := c.UserService.Restore(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"userId": userID})
}

// @Router /api/admin/deleted-users/{id} [delete]
func (c *UserController) DeleteAuditRecord(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	removed, err := c.UserService.DeleteAuditRecord(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !removed {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}

// @Router /api/admin/deleted-courses [get]
func (c *UserController) ListDeletedCourses(ctx *gin.Context) {
	list, err := c.ContentService.ListDeletedCourses(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Router /api/admin/deleted-courses/{id} [delete]
func (c *UserController) DeleteDeletedCourse(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	removed, err := c.ContentService.DeleteDeletedCourseRecord(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !removed {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
