package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	ContentService *service.ContentService
}

func NewCourseController(courseService *service.CourseService, contentService *service.ContentService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		ContentService: contentService,
	}
}

// canView admits admins, the owning teacher and enrolled students.
func canView(ctx *gin.Context, courses *service.CourseService, claims *util.Claims, course *model.Course) bool {
	switch {
	case claims.Role == model.Admin, course.TeacherID == claims.UserID:
		return true
	case claims.Role == model.Student:
		member, err := courses.IsMember(ctx, claims.UserID, course.ID)
		if err != nil {
			util.HandleError(ctx, err)
			return false
		}
		if member {
			return true
		}
	}
	util.Forbidden(ctx)
	return false
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Security ApiKeyAuth
// @Param body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(ctx, req.Title, req.Description, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	changed, err := c.CourseService.UpdateCourse(ctx, claims.UserID, id, req.Title, req.Description)
	respondChanged(ctx, changed, err)
}

// DeleteCourse 删除课程及其全部内容，删除前保存快照
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.ContentService.DestroyCourse(ctx, id, claims.UserID)
	respondChanged(ctx, deleted, err)
}

// ListCourses returns the caller's courses: taught for teachers, joined for students and
// every course for admins.
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}

	var (
		courses []model.Course
		err     error
	)
	switch claims.Role {
	case model.Admin:
		courses, err = c.CourseService.ListAllCourses(ctx)
	case model.Teacher:
		courses, err = c.CourseService.ListTeacherCourses(ctx, claims.UserID)
	default:
		courses, err = c.CourseService.ListStudentCourses(ctx, claims.UserID)
	}
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.ContentService.GetCourse(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !canView(ctx, c.CourseService, claims, course) {
		return
	}
	util.Success(ctx, course)
}

type JoinCourseRequest struct {
	Code string `json:"code" binding:"required"`
}

// JoinCourse 通过邀请码加入课程
// @Router /api/courses/join [post]
func (c *CourseController) JoinCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	var req JoinCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	courseID, err := c.CourseService.JoinByCode(ctx, claims.UserID, req.Code)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID})
}

// @Router /api/courses/{id}/leave [post]
func (c *CourseController) LeaveCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	removed, err := c.CourseService.RemoveMember(ctx, claims.UserID, id, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

// @Router /api/teacher/courses/{id}/members [get]
func (c *CourseController) ListMembers(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.ContentService.GetCourse(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if claims.Role != model.Admin && course.TeacherID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	members, err := c.CourseService.ListMembers(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// @Router /api/teacher/courses/{id}/members/{studentId} [delete]
func (c *CourseController) RemoveMember(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "studentId")
	if !ok {
		return
	}
	removed, err := c.CourseService.RemoveMember(ctx, claims.UserID, id, studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}
