package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	ContentService *service.ContentService
	CourseService  *service.CourseService
}

func NewQuizController(quizService *service.QuizService, contentService *service.ContentService, courseService *service.CourseService) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		ContentService: contentService,
		CourseService:  courseService,
	}
}

type CreateQuizRequest struct {
	Questions []model.Question `json:"questions"`
}

// AttemptRequest keeps answers untyped so a malformed entry is scored wrong instead of
// failing the whole request.
type AttemptRequest struct {
	Answers []any `json:"answers"`
}

// studentQuestion hides the answer key.
type studentQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

type studentQuiz struct {
	ID        uint              `json:"id"`
	LessonID  uint              `json:"lessonId"`
	Questions []studentQuestion `json:"questions"`
}

func quizView(claims *util.Claims, quiz model.Quiz) any {
	if claims.Role != model.Student {
		return quiz
	}
	qs := make([]studentQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		qs[i] = studentQuestion{Question: q.Question, Choices: q.Choices}
	}
	return studentQuiz{ID: quiz.ID, LessonID: quiz.LessonID, Questions: qs}
}

func (c *QuizController) canViewLesson(ctx *gin.Context, claims *util.Claims, lessonID uint) bool {
	lesson, err := c.ContentService.GetLesson(ctx, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return false
	}
	course, err := c.ContentService.GetCourse(ctx, lesson.CourseID)
	if err != nil {
		util.HandleError(ctx, err)
		return false
	}
	return canView(ctx, c.CourseService, claims, course)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 测验
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body CreateQuizRequest true "题目"
// @Router /api/teacher/lessons/{id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	lessonID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	id, err := c.QuizService.CreateQuiz(ctx, claims.UserID, lessonID, req.Questions)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": id})
}

// @Router /api/lessons/{id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	lessonID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if !c.canViewLesson(ctx, claims, lessonID) {
		return
	}
	quizzes, err := c.QuizService.ListQuizzes(ctx, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	views := make([]any, len(quizzes))
	for i, q := range quizzes {
		views[i] = quizView(claims, q)
	}
	util.Success(ctx, views)
}

// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuiz(ctx, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !c.canViewLesson(ctx, claims, quiz.LessonID) {
		return
	}
	util.Success(ctx, quizView(claims, *quiz))
}

// SubmitAttempt 提交测验答案并立即评分
// @Router /api/quizzes/{id}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.QuizService.EvaluateAttempt(ctx, id, claims.UserID, service.ParseAnswers(req.Answers))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	attempts, err := c.QuizService.ListAttempts(ctx, id, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
