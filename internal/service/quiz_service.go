package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"context"
	"encoding/json"
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptResult struct {
	AttemptID uint    `json:"attemptId"`
	Score     float64 `json:"score"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
}

// QuizService is the assessment engine.
type QuizService struct {
	Tx         *TxManager
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
}

func NewQuizService(
	tx *TxManager,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
) *QuizService {
	return &QuizService{
		Tx:         tx,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
	}
}

// CreateQuiz validates every question before storing. An empty question list is accepted.
func (s *QuizService) CreateQuiz(ctx context.Context, actorID, lessonID uint, questions []model.Question) (uint, error) {
	if err := util.Validate.Var(questions, "dive"); err != nil {
		return 0, err
	}
	if questions == nil {
		questions = []model.Question{}
	}

	quiz := &model.Quiz{
		LessonID:  lessonID,
		Questions: datatypes.JSONSlice[model.Question](questions),
	}
	err := s.Tx.Run(ctx, "CreateQuiz", func(tx *gorm.DB) error {
		lesson, err := s.LessonRepo.WithTx(tx).FindByID(lessonID)
		if err != nil {
			return err
		}
		course, err := s.CourseRepo.WithTx(tx).FindByID(lesson.CourseID)
		if err != nil {
			return err
		}
		actor, err := loadActor(tx, s.UserRepo, actorID)
		if err != nil {
			return err
		}
		if !canManage(actor, course) {
			return util.ErrUnauthorized
		}
		return s.QuizRepo.WithTx(tx).Create(quiz)
	})
	if err != nil {
		return 0, err
	}
	return quiz.ID, nil
}

// EvaluateAttempt scores answers positionally and records the attempt. A nil, short or
// out-of-range answer is simply wrong.
func (s *QuizService) EvaluateAttempt(ctx context.Context, quizID, studentID uint, answers []*int) (*AttemptResult, error) {
	var result *AttemptResult
	err := s.Tx.Run(ctx, "EvaluateAttempt", func(tx *gorm.DB) error {
		quizzes := s.QuizRepo.WithTx(tx)
		quiz, err := quizzes.FindByID(quizID)
		if err != nil {
			return err
		}
		if _, err := activeUser(tx, s.UserRepo, studentID); err != nil {
			return err
		}

		correct, total := Score(quiz.Questions, answers)
		if answers == nil {
			answers = []*int{}
		}
		attempt := &model.Attempt{
			QuizID:    quizID,
			StudentID: studentID,
			Answers:   datatypes.JSONSlice[*int](answers),
			Score:     Percentage(correct, total),
		}
		if err := quizzes.CreateAttempt(attempt); err != nil {
			return err
		}
		result = &AttemptResult{
			AttemptID: attempt.ID,
			Score:     attempt.Score,
			Correct:   correct,
			Total:     total,
		}
		return nil
	})
	return result, err
}

// Score counts the answers matching their question's answer index.
func Score(questions []model.Question, answers []*int) (correct, total int) {
	total = len(questions)
	for i, q := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == q.Answer {
			correct++
		}
	}
	return correct, total
}

// Percentage is correct/total*100 rounded to two decimals, or 0 for an empty quiz.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

// ParseAnswers decodes answers from a JSON body. Anything that is not an integral number
// becomes nil and will be scored as wrong.
func ParseAnswers(raw []any) []*int {
	out := make([]*int, len(raw))
	for i, v := range raw {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
			continue
		}
		idx := int(f)
		out[i] = &idx
	}
	return out
}

func (s *QuizService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz *model.Quiz
	err := s.Tx.Run(ctx, "GetQuiz", func(tx *gorm.DB) error {
		var err error
		quiz, err = s.QuizRepo.WithTx(tx).FindByID(id)
		return err
	})
	return quiz, err
}

func (s *QuizService) ListQuizzes(ctx context.Context, lessonID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := s.Tx.Run(ctx, "ListQuizzes", func(tx *gorm.DB) error {
		var err error
		quizzes, err = s.QuizRepo.WithTx(tx).ListByLesson(lessonID)
		return err
	})
	return quizzes, err
}

func (s *QuizService) ListAttempts(ctx context.Context, quizID, studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := s.Tx.Run(ctx, "ListAttempts", func(tx *gorm.DB) error {
		var err error
		attempts, err = s.QuizRepo.WithTx(tx).ListAttempts(quizID, studentID)
		return err
	})
	return attempts, err
}
