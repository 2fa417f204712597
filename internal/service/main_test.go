package service

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx      context.Context
	db       *gorm.DB
	users    *UserService
	courses  *CourseService
	content  *ContentService
	quizzes  *QuizService
	export   *ExportService
	progress *ProgressService
	res      *ResourceService
	auth     *AuthService
	storage  *StorageService
}

func setup(t *testing.T) *testEnv {
	db := testutil.PrepareDB(t)

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	tx := NewTxManager(db, 2*time.Second)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	storage := NewStorageService(context.Background(), cfg)
	content := NewContentService(tx, userRepo, courseRepo, lessonRepo, quizRepo, auditRepo)
	users := NewUserService(tx, userRepo, courseRepo, lessonRepo, quizRepo, auditRepo, resourceRepo, content, storage)

	return &testEnv{
		ctx:      context.Background(),
		db:       db,
		users:    users,
		courses:  NewCourseService(tx, userRepo, courseRepo),
		content:  content,
		quizzes:  NewQuizService(tx, userRepo, courseRepo, lessonRepo, quizRepo),
		export:   NewExportService(tx, content),
		progress: NewProgressService(tx, progressRepo, quizRepo),
		res:      NewResourceService(tx, userRepo, courseRepo, resourceRepo, storage),
		auth:     NewAuthService(users, cfg),
		storage:  storage,
	}
}

func (e *testEnv) user(t *testing.T, role model.UserRole) *model.User {
	return testutil.CreateUser(t, e.db, role)
}

func (e *testEnv) count(t *testing.T, table, query string, args ...interface{}) int64 {
	return testutil.Count(t, e.db, table, query, args...)
}

// courseTree is a course with one lesson carrying an assignment, a quiz, a member, a
// submission and an attempt.
type courseTree struct {
	course     *model.Course
	lesson     uint
	assignment uint
	quiz       uint
	student    *model.User
	submission uint
}

func (e *testEnv) courseTree(t *testing.T, teacher *model.User) courseTree {
	t.Helper()

	course, err := e.courses.CreateCourse(e.ctx, "Algebra", "linear equations", teacher.ID)
	require.NoError(t, err)

	lessonID, err := e.content.CreateLesson(e.ctx, teacher.ID, course.ID, LessonInput{Title: "Lesson 1", Content: "x + 1 = 2"})
	require.NoError(t, err)

	assignmentID, err := e.content.CreateAssignment(e.ctx, teacher.ID, lessonID, AssignmentInput{Title: "Homework"})
	require.NoError(t, err)

	quizID, err := e.quizzes.CreateQuiz(e.ctx, teacher.ID, lessonID, []model.Question{
		{Question: "1+1", Choices: []string{"1", "2"}, Answer: 1},
	})
	require.NoError(t, err)

	student := e.user(t, model.Student)
	_, err = e.courses.JoinByCode(e.ctx, student.ID, course.Code)
	require.NoError(t, err)

	text := "x = 1"
	submissionID, err := e.content.SubmitAssignment(e.ctx, assignmentID, student.ID, nil, &text)
	require.NoError(t, err)

	_, err = e.quizzes.EvaluateAttempt(e.ctx, quizID, student.ID, []*int{intp(1)})
	require.NoError(t, err)

	return courseTree{
		course:     course,
		lesson:     lessonID,
		assignment: assignmentID,
		quiz:       quizID,
		student:    student,
		submission: submissionID,
	}
}

func intp(i int) *int { return &i }

func strp(s string) *string { return &s }

func floatp(f float64) *float64 { return &f }
