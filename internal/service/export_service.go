package service

import (
	"bytes"
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"context"
	"encoding/csv"
	"strconv"

	"gorm.io/gorm"
)

var submissionsCSVHeader = []string{"id", "student_name", "file_path", "text", "submitted_at", "grade", "feedback"}

type ExportService struct {
	Tx      *TxManager
	Content *ContentService
}

func NewExportService(tx *TxManager, content *ContentService) *ExportService {
	return &ExportService{Tx: tx, Content: content}
}

// ExportSubmissionsCSV renders every submission of an assignment. Fields containing commas,
// quotes or newlines are quoted.
func (s *ExportService) ExportSubmissionsCSV(ctx context.Context, actorID, assignmentID uint) ([]byte, error) {
	var rows []model.SubmissionRow
	err := s.Tx.Run(ctx, "ExportSubmissionsCSV", func(tx *gorm.DB) error {
		ok, err := s.Content.authorizeAssignment(tx, actorID, assignmentID)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrUnauthorized
		}
		rows, err = s.Content.LessonRepo.WithTx(tx).ListSubmissions(assignmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return encodeSubmissions(rows)
}

func encodeSubmissions(rows []model.SubmissionRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(submissionsCSVHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.StudentName,
			deref(r.FilePath),
			deref(r.Text),
			r.SubmittedAt.Format(util.TimeFormat),
			"",
			deref(r.Feedback),
		}
		if r.Grade != nil {
			record[5] = strconv.FormatFloat(*r.Grade, 'f', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
