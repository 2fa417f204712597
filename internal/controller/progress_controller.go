package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary 学习进度
// @Description 已提交作业的课时数、平均测验分数和完成百分比
// @Tags 学习
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Progress}
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	progress, err := c.ProgressService.StudentProgress(ctx, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
