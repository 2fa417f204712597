package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// ContentController serves lessons, assignments, submissions and grading.
type ContentController struct {
	ContentService *service.ContentService
	CourseService  *service.CourseService
	ExportService  *service.ExportService
	Storage        *service.StorageService
}

func NewContentController(
	contentService *service.ContentService,
	courseService *service.CourseService,
	exportService *service.ExportService,
	storage *service.StorageService,
) *ContentController {
	return &ContentController{
		ContentService: contentService,
		CourseService:  courseService,
		ExportService:  exportService,
		Storage:        storage,
	}
}

// LessonRequest accepts JSON or multipart/form-data; the latter may carry a "file".
type LessonRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

type AssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback *string  `json:"feedback"`
}

// viewableLesson loads a lesson the caller may read.
func (c *ContentController) viewableLesson(ctx *gin.Context, claims *util.Claims, lessonID uint) (*model.Lesson, bool) {
	lesson, err := c.ContentService.GetLesson(ctx, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return nil, false
	}
	course, err := c.ContentService.GetCourse(ctx, lesson.CourseID)
	if err != nil {
		util.HandleError(ctx, err)
		return nil, false
	}
	return lesson, canView(ctx, c.CourseService, claims, course)
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 内容
// @Accept  json,mpfd
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param file formData file false "附件"
// @Router /api/teacher/courses/{id}/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	courseID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attachment, ok := storeUpload(ctx, c.Storage, "file")
	if !ok {
		return
	}

	id, err := c.ContentService.CreateLesson(ctx, claims.UserID, courseID, service.LessonInput{
		Title:      req.Title,
		Content:    req.Content,
		Attachment: attachment,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": id})
}

// @Router /api/teacher/lessons/{id} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attachment, ok := storeUpload(ctx, c.Storage, "file")
	if !ok {
		return
	}
	changed, err := c.ContentService.UpdateLesson(ctx, claims.UserID, id, service.LessonInput{
		Title:      req.Title,
		Content:    req.Content,
		Attachment: attachment,
	})
	respondChanged(ctx, changed, err)
}

// @Router /api/teacher/lessons/{id} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.ContentService.DeleteLesson(ctx, claims.UserID, id)
	respondChanged(ctx, deleted, err)
}

// @Router /api/courses/{id}/lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	courseID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.ContentService.GetCourse(ctx, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !canView(ctx, c.CourseService, claims, course) {
		return
	}
	lessons, err := c.ContentService.ListLessons(ctx, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Router /api/lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	lesson, ok := c.viewableLesson(ctx, claims, id)
	if !ok {
		return
	}
	util.Success(ctx, lesson)
}

// @Router /api/teacher/lessons/{id}/assignments [post]
func (c *ContentController) CreateAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	lessonID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	id, err := c.ContentService.CreateAssignment(ctx, claims.UserID, lessonID, service.AssignmentInput(req))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": id})
}

// @Router /api/teacher/assignments/{id} [put]
func (c *ContentController) UpdateAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	changed, err := c.ContentService.UpdateAssignment(ctx, claims.UserID, id, service.AssignmentInput(req))
	respondChanged(ctx, changed, err)
}

// @Router /api/teacher/assignments/{id} [delete]
func (c *ContentController) DeleteAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.ContentService.DeleteAssignment(ctx, claims.UserID, id)
	respondChanged(ctx, deleted, err)
}

// @Router /api/lessons/{id}/assignments [get]
func (c *ContentController) ListAssignments(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	lessonID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if _, ok := c.viewableLesson(ctx, claims, lessonID); !ok {
		return
	}
	assignments, err := c.ContentService.ListAssignments(ctx, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Router /api/assignments/{id} [get]
func (c *ContentController) GetAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	assignment, err := c.ContentService.GetAssignment(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if _, ok := c.viewableLesson(ctx, claims, assignment.LessonID); !ok {
		return
	}
	util.Success(ctx, assignment)
}

// SubmitAssignment godoc
// @Summary 提交作业
// @Description 每次提交都会新增一条记录，可附带文件和文本
// @Tags 内容
// @Accept  mpfd
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Param text formData string false "文本"
// @Param file formData file false "文件"
// @Router /api/assignments/{id}/submissions [post]
func (c *ContentController) SubmitAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	fileRef, ok := storeUpload(ctx, c.Storage, "file")
	if !ok {
		return
	}
	var text *string
	if v, exists := ctx.GetPostForm("text"); exists {
		text = &v
	}

	submissionID, err := c.ContentService.SubmitAssignment(ctx, id, claims.UserID, fileRef, text)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": submissionID})
}

// @Router /api/teacher/assignments/{id}/submissions [get]
func (c *ContentController) ListSubmissions(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	rows, err := c.ContentService.ListSubmissions(ctx, claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Router /api/teacher/submissions/{id}/grade [put]
func (c *ContentController) GradeSubmission(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.GradeSubmission(ctx, claims.UserID, id, req.Grade, req.Feedback); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ExportSubmissions 导出作业提交记录为CSV
// @Produce text/csv
// @Router /api/teacher/assignments/{id}/export [get]
func (c *ContentController) ExportSubmissions(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	data, err := c.ExportService.ExportSubmissionsCSV(ctx, claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assignment_%d_submissions.csv"`, id))
	ctx.Data(200, "text/csv; charset=utf-8", data)
}
