package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"context"
	"strings"

	"gorm.io/gorm"
)

type CourseInput struct {
	Title       string `json:"title" validate:"notblank,max=255"`
	Description string `json:"description"`
}

// CourseService is the enrollment manager: courses, join codes and rosters.
type CourseService struct {
	Tx         *TxManager
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository

	// GenerateCode draws a candidate join code. Replaced in tests.
	GenerateCode func() string
}

func NewCourseService(tx *TxManager, userRepo *repository.UserRepository, courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{
		Tx:           tx,
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		GenerateCode: util.GenerateCourseCode,
	}
}

// CreateCourse requires an existing teacher and draws a join code not used by any course,
// giving up after util.CourseCodeAttempts collisions.
func (s *CourseService) CreateCourse(ctx context.Context, title, description string, teacherID uint) (*model.Course, error) {
	in := CourseInput{Title: title, Description: description}
	if err := util.Validate.Struct(in); err != nil {
		return nil, err
	}

	var course *model.Course
	err := s.Tx.Run(ctx, "CreateCourse", func(tx *gorm.DB) error {
		teacher, err := s.UserRepo.WithTx(tx).FindByID(teacherID)
		if err != nil {
			return err
		}
		if !teacher.IsTeacher() {
			return util.ErrUnauthorized
		}

		courses := s.CourseRepo.WithTx(tx)
		code, err := s.uniqueCode(courses)
		if err != nil {
			return err
		}

		course = &model.Course{
			Title:       util.CleanString(in.Title),
			Description: in.Description,
			TeacherID:   teacherID,
			Code:        code,
		}
		return courses.Create(course)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) uniqueCode(courses *repository.CourseRepository) (string, error) {
	for i := 0; i < util.CourseCodeAttempts; i++ {
		code := s.GenerateCode()
		taken, err := courses.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", util.ErrCodeGenerationExhausted
}

// JoinByCode enrolls the student in the course with the given code. Joining twice is a
// no-op that still returns the course id.
func (s *CourseService) JoinByCode(ctx context.Context, studentID uint, code string) (uint, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var courseID uint
	err := s.Tx.Run(ctx, "JoinByCode", func(tx *gorm.DB) error {
		if code == "" {
			return util.ErrNotFound
		}
		course, err := s.CourseRepo.WithTx(tx).FindByCode(code)
		if err != nil {
			return err
		}
		if _, err := activeUser(tx, s.UserRepo, studentID); err != nil {
			return err
		}
		if _, err := s.CourseRepo.WithTx(tx).AddMember(course.ID, studentID); err != nil {
			return err
		}
		courseID = course.ID
		return nil
	})
	return courseID, err
}

// RemoveMember lets the owner, an admin, or the student themself drop a membership. It
// reports whether a row was removed.
func (s *CourseService) RemoveMember(ctx context.Context, actorID, courseID, studentID uint) (bool, error) {
	var removed bool
	err := s.Tx.Run(ctx, "RemoveMember", func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		course, err := courses.FindByID(courseID)
		if err != nil {
			return err
		}
		actor, err := loadActor(tx, s.UserRepo, actorID)
		if err != nil {
			return err
		}
		self := actor != nil && actor.ID == studentID
		if !self && !canManage(actor, course) {
			return util.ErrUnauthorized
		}
		removed, err = courses.RemoveMember(courseID, studentID)
		return err
	})
	return removed, err
}

func (s *CourseService) UpdateCourse(ctx context.Context, actorID, courseID uint, title, description string) (bool, error) {
	in := CourseInput{Title: title, Description: description}
	if err := util.Validate.Struct(in); err != nil {
		return false, err
	}
	return denied(s.Tx.Run(ctx, "UpdateCourse", func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		course, err := courses.FindByID(courseID)
		if err != nil {
			return err
		}
		actor, err := loadActor(tx, s.UserRepo, actorID)
		if err != nil {
			return err
		}
		if !canManage(actor, course) {
			return errDenied
		}
		return courses.Update(courseID, util.CleanString(in.Title), in.Description)
	}))
}

func (s *CourseService) ListMembers(ctx context.Context, courseID uint) ([]model.Member, error) {
	var members []model.Member
	err := s.Tx.Run(ctx, "ListMembers", func(tx *gorm.DB) error {
		var err error
		members, err = s.CourseRepo.WithTx(tx).ListMembers(courseID)
		return err
	})
	return members, err
}

func (s *CourseService) ListTeacherCourses(ctx context.Context, teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := s.Tx.Run(ctx, "ListTeacherCourses", func(tx *gorm.DB) error {
		var err error
		courses, err = s.CourseRepo.WithTx(tx).ListByTeacher(teacherID)
		return err
	})
	return courses, err
}

func (s *CourseService) ListStudentCourses(ctx context.Context, studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := s.Tx.Run(ctx, "ListStudentCourses", func(tx *gorm.DB) error {
		var err error
		courses, err = s.CourseRepo.WithTx(tx).ListByStudent(studentID)
		return err
	})
	return courses, err
}

func (s *CourseService) ListAllCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := s.Tx.Run(ctx, "ListAllCourses", func(tx *gorm.DB) error {
		var err error
		courses, err = s.CourseRepo.WithTx(tx).ListAll()
		return err
	})
	return courses, err
}

func (s *CourseService) IsMember(ctx context.Context, studentID, courseID uint) (bool, error) {
	var member bool
	err := s.Tx.Run(ctx, "IsMember", func(tx *gorm.DB) error {
		var err error
		member, err = s.CourseRepo.WithTx(tx).IsMember(studentID, courseID)
		return err
	})
	return member, err
}
