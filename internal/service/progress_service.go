package service

import (
	"classroom_backend/internal/repository"
	"context"
	"math"

	"gorm.io/gorm"
)

type Progress struct {
	Completed int64    `json:"completed"`
	Total     int64    `json:"total"`
	AvgScore  *float64 `json:"avgScore"`
	Percent   int      `json:"percent"`
}

type ProgressService struct {
	Tx           *TxManager
	ProgressRepo *repository.ProgressRepository
	QuizRepo     *repository.QuizRepository
}

func NewProgressService(tx *TxManager, progressRepo *repository.ProgressRepository, quizRepo *repository.QuizRepository) *ProgressService {
	return &ProgressService{Tx: tx, ProgressRepo: progressRepo, QuizRepo: quizRepo}
}

// StudentProgress counts a lesson as completed once the student has submitted to any of its
// assignments. Only lessons of joined courses are counted.
func (s *ProgressService) StudentProgress(ctx context.Context, studentID uint) (*Progress, error) {
	p := &Progress{}
	err := s.Tx.Run(ctx, "StudentProgress", func(tx *gorm.DB) error {
		progress := s.ProgressRepo.WithTx(tx)
		var err error
		if p.Completed, err = progress.CompletedLessons(studentID); err != nil {
			return err
		}
		if p.Total, err = progress.EnrolledLessons(studentID); err != nil {
			return err
		}
		p.AvgScore, err = s.QuizRepo.WithTx(tx).AverageScore(studentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if p.AvgScore != nil {
		avg := math.Round(*p.AvgScore*100) / 100
		p.AvgScore = &avg
	}
	if p.Total > 0 {
		p.Percent = int(p.Completed * 100 / p.Total)
	}
	return p, nil
}
