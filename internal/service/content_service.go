package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonInput struct {
	Title      string  `json:"title" validate:"notblank,max=255"`
	Content    string  `json:"content"`
	Attachment *string `json:"attachment" validate:"omitempty,max=255"`
}

type AssignmentInput struct {
	Title       string     `json:"title" validate:"notblank,max=255"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// ContentService owns the course > lesson > assignment > submission hierarchy and its
// destruction.
type ContentService struct {
	Tx         *TxManager
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
	AuditRepo  *repository.AuditRepository
}

func NewContentService(
	tx *TxManager,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	auditRepo *repository.AuditRepository,
) *ContentService {
	return &ContentService{
		Tx:         tx,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
		AuditRepo:  auditRepo,
	}
}

// DestroyCourse snapshots the course and removes it with everything below it. A requester who
// is neither the owner nor an admin gets (false, nil).
func (s *ContentService) DestroyCourse(ctx context.Context, courseID, requestingID uint) (bool, error) {
	err := s.Tx.Run(ctx, "DestroyCourse", func(tx *gorm.DB) error {
		course, err := s.CourseRepo.WithTx(tx).FindByID(courseID)
		if err != nil {
			return err
		}
		actor, err := loadActor(tx, s.UserRepo, requestingID)
		if err != nil {
			return err
		}
		if !canManage(actor, course) {
			return errDenied
		}
		return s.destroyCourseTx(tx, course, &requestingID)
	})
	ok, err := denied(err)
	if ok {
		logger.Log.Info("Course destroyed", zap.Uint("courseID", courseID), zap.Uint("by", requestingID))
	}
	return ok, err
}

// destroyCourseTx runs inside the caller's transaction so Purge can reuse it.
func (s *ContentService) destroyCourseTx(tx *gorm.DB, course *model.Course, deletedBy *uint) error {
	snapshot, err := json.Marshal(course.Snapshot())
	if err != nil {
		return err
	}
	if err := s.AuditRepo.WithTx(tx).CreateDeletedCourse(&model.DeletedCourse{
		CourseID:  course.ID,
		Title:     course.Title,
		TeacherID: course.TeacherID,
		Snapshot:  datatypes.JSON(snapshot),
		DeletedBy: deletedBy,
	}); err != nil {
		return err
	}

	lessons := s.LessonRepo.WithTx(tx)
	if err := lessons.DeleteSubmissionsByCourse(course.ID); err != nil {
		return err
	}
	if err := lessons.DeleteAssignmentsByCourse(course.ID); err != nil {
		return err
	}
	if err := s.QuizRepo.WithTx(tx).DeleteByCourse(course.ID); err != nil {
		return err
	}
	if err := lessons.DeleteByCourse(course.ID); err != nil {
		return err
	}
	courses := s.CourseRepo.WithTx(tx)
	if err := courses.DeleteMembersByCourse(course.ID); err != nil {
		return err
	}
	return courses.Delete(course.ID)
}

// authorizeCourse loads the course and checks the actor against it.
func (s *ContentService) authorizeCourse(tx *gorm.DB, actorID, courseID uint) (bool, error) {
	course, err := s.CourseRepo.WithTx(tx).FindByID(courseID)
	if err != nil {
		return false, err
	}
	actor, err := loadActor(tx, s.UserRepo, actorID)
	if err != nil {
		return false, err
	}
	return canManage(actor, course), nil
}

func (s *ContentService) authorizeLesson(tx *gorm.DB, actorID, lessonID uint) (*model.Lesson, bool, error) {
	lesson, err := s.LessonRepo.WithTx(tx).FindByID(lessonID)
	if err != nil {
		return nil, false, err
	}
	ok, err := s.authorizeCourse(tx, actorID, lesson.CourseID)
	return lesson, ok, err
}

func (s *ContentService) authorizeAssignment(tx *gorm.DB, actorID, assignmentID uint) (bool, error) {
	courseID, err := s.LessonRepo.WithTx(tx).CourseIDOfAssignment(assignmentID)
	if err != nil {
		return false, err
	}
	return s.authorizeCourse(tx, actorID, courseID)
}

func (s *ContentService) CreateLesson(ctx context.Context, actorID, courseID uint, in LessonInput) (uint, error) {
	if err := util.Validate.Struct(in); err != nil {
		return 0, err
	}
	lesson := &model.Lesson{
		CourseID:   courseID,
		Title:      util.CleanString(in.Title),
		Content:    in.Content,
		Attachment: util.OptionalString(in.Attachment),
	}
	err := s.Tx.Run(ctx, "CreateLesson", func(tx *gorm.DB) error {
		ok, err := s.authorizeCourse(tx, actorID, courseID)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrUnauthorized
		}
		return s.LessonRepo.WithTx(tx).Create(lesson)
	})
	if err != nil {
		return 0, err
	}
	return lesson.ID, nil
}

// UpdateLesson rewrites title and content; a nil attachment keeps the stored one.
func (s *ContentService) UpdateLesson(ctx context.Context, actorID, lessonID uint, in LessonInput) (bool, error) {
	if err := util.Validate.Struct(in); err != nil {
		return false, err
	}
	return denied(s.Tx.Run(ctx, "UpdateLesson", func(tx *gorm.DB) error {
		_, ok, err := s.authorizeLesson(tx, actorID, lessonID)
		if err != nil {
			return err
		}
		if !ok {
			return errDenied
		}
		return s.LessonRepo.WithTx(tx).Update(lessonID, util.CleanString(in.Title), in.Content, util.OptionalString(in.Attachment))
	}))
}

// DeleteLesson removes the lesson with its assignments, their submissions, its quizzes and
// their attempts.
func (s *ContentService) DeleteLesson(ctx context.Context, actorID, lessonID uint) (bool, error) {
	return denied(s.Tx.Run(ctx, "DeleteLesson", func(tx *gorm.DB) error {
		_, ok, err := s.authorizeLesson(tx, actorID, lessonID)
		if err != nil {
			return err
		}
		if !ok {
			return errDenied
		}
		lessons := s.LessonRepo.WithTx(tx)
		if err := lessons.DeleteSubmissionsByLesson(lessonID); err != nil {
			return err
		}
		if err := lessons.DeleteAssignmentsByLesson(lessonID); err != nil {
			return err
		}
		if err := s.QuizRepo.WithTx(tx).DeleteByLesson(lessonID); err != nil {
			return err
		}
		return lessons.Delete(lessonID)
	}))
}

func (s *ContentService) CreateAssignment(ctx context.Context, actorID, lessonID uint, in AssignmentInput) (uint, error) {
	if err := util.Validate.Struct(in); err != nil {
		return 0, err
	}
	assignment := &model.Assignment{
		LessonID:    lessonID,
		Title:       util.CleanString(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	err := s.Tx.Run(ctx, "CreateAssignment", func(tx *gorm.DB) error {
		_, ok, err := s.authorizeLesson(tx, actorID, lessonID)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrUnauthorized
		}
		return s.LessonRepo.WithTx(tx).CreateAssignment(assignment)
	})
	if err != nil {
		return 0, err
	}
	return assignment.ID, nil
}

func (s *ContentService) UpdateAssignment(ctx context.Context, actorID, assignmentID uint, in AssignmentInput) (bool, error) {
	if err := util.Validate.Struct(in); err != nil {
		return false, err
	}
	return denied(s.Tx.Run(ctx, "UpdateAssignment", func(tx *gorm.DB) error {
		ok, err := s.authorizeAssignment(tx, actorID, assignmentID)
		if err != nil {
			return err
		}
		if !ok {
			return errDenied
		}
		return s.LessonRepo.WithTx(tx).UpdateAssignment(assignmentID, util.CleanString(in.Title), in.Description, in.DueDate)
	}))
}

func (s *ContentService) DeleteAssignment(ctx context.Context, actorID, assignmentID uint) (bool, error) {
	return denied(s.Tx.Run(ctx, "DeleteAssignment", func(tx *gorm.DB) error {
		ok, err := s.authorizeAssignment(tx, actorID, assignmentID)
		if err != nil {
			return err
		}
		if !ok {
			return errDenied
		}
		lessons := s.LessonRepo.WithTx(tx)
		if err := lessons.DeleteSubmissionsByAssignment(assignmentID); err != nil {
			return err
		}
		return lessons.DeleteAssignment(assignmentID)
	}))
}

// SubmitAssignment always appends; earlier submissions are kept.
func (s *ContentService) SubmitAssignment(ctx context.Context, assignmentID, studentID uint, fileRef, text *string) (uint, error) {
	submission := &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FilePath:     util.OptionalString(fileRef),
		Text:         text,
	}
	err := s.Tx.Run(ctx, "SubmitAssignment", func(tx *gorm.DB) error {
		if _, err := s.LessonRepo.WithTx(tx).FindAssignment(assignmentID); err != nil {
			return err
		}
		if _, err := activeUser(tx, s.UserRepo, studentID); err != nil {
			return err
		}
		return s.LessonRepo.WithTx(tx).CreateSubmission(submission)
	})
	if err != nil {
		return 0, err
	}
	return submission.ID, nil
}

// GradeSubmission stores grade and feedback as given; the grade range is not checked.
func (s *ContentService) GradeSubmission(ctx context.Context, actorID, submissionID uint, grade *float64, feedback *string) error {
	return s.Tx.Run(ctx, "GradeSubmission", func(tx *gorm.DB) error {
		submission, err := s.LessonRepo.WithTx(tx).FindSubmission(submissionID)
		if err != nil {
			return err
		}
		ok, err := s.authorizeAssignment(tx, actorID, submission.AssignmentID)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrUnauthorized
		}
		return s.LessonRepo.WithTx(tx).GradeSubmission(submissionID, grade, feedback)
	})
}

func (s *ContentService) ListDeletedCourses(ctx context.Context) ([]model.DeletedCourse, error) {
	var recs []model.DeletedCourse
	err := s.Tx.Run(ctx, "ListDeletedCourses", func(tx *gorm.DB) error {
		var err error
		recs, err = s.AuditRepo.WithTx(tx).ListDeletedCourses()
		return err
	})
	return recs, err
}

func (s *ContentService) DeleteDeletedCourseRecord(ctx context.Context, id uint) (bool, error) {
	var removed bool
	err := s.Tx.Run(ctx, "DeleteDeletedCourseRecord", func(tx *gorm.DB) error {
		var err error
		removed, err = s.AuditRepo.WithTx(tx).DeleteDeletedCourse(id)
		return err
	})
	return removed, err
}

func (s *ContentService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	var course *model.Course
	err := s.Tx.Run(ctx, "GetCourse", func(tx *gorm.DB) error {
		var err error
		course, err = s.CourseRepo.WithTx(tx).FindByID(id)
		return err
	})
	return course, err
}

func (s *ContentService) GetLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson *model.Lesson
	err := s.Tx.Run(ctx, "GetLesson", func(tx *gorm.DB) error {
		var err error
		lesson, err = s.LessonRepo.WithTx(tx).FindByID(id)
		return err
	})
	return lesson, err
}

func (s *ContentService) ListLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := s.Tx.Run(ctx, "ListLessons", func(tx *gorm.DB) error {
		var err error
		lessons, err = s.LessonRepo.WithTx(tx).ListByCourse(courseID)
		return err
	})
	return lessons, err
}

func (s *ContentService) GetAssignment(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment *model.Assignment
	err := s.Tx.Run(ctx, "GetAssignment", func(tx *gorm.DB) error {
		var err error
		assignment, err = s.LessonRepo.WithTx(tx).FindAssignment(id)
		return err
	})
	return assignment, err
}

func (s *ContentService) ListAssignments(ctx context.Context, lessonID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := s.Tx.Run(ctx, "ListAssignments", func(tx *gorm.DB) error {
		var err error
		assignments, err = s.LessonRepo.WithTx(tx).ListAssignments(lessonID)
		return err
	})
	return assignments, err
}

// ListSubmissions is restricted to the course owner and admins.
func (s *ContentService) ListSubmissions(ctx context.Context, actorID, assignmentID uint) ([]model.SubmissionRow, error) {
	var rows []model.SubmissionRow
	err := s.Tx.Run(ctx, "ListSubmissions", func(tx *gorm.DB) error {
		ok, err := s.authorizeAssignment(tx, actorID, assignmentID)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrUnauthorized
		}
		rows, err = s.LessonRepo.WithTx(tx).ListSubmissions(assignmentID)
		return err
	})
	return rows, err
}
