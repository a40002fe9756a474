package services

import (
	"context"
	"fmt"

	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

var resultHeaders = []string{
	"Student Name", "Student Email", "Score", "Total Questions",
	"Correct", "Wrong", "Certificate", "Date",
}

type exportService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewExportService(deps Dependencies) ExportService {
	deps = deps.withDefaults()
	return &exportService{
		repo:   deps.Repo,
		logger: NewServiceLogger(deps.Logger, "export"),
	}
}

// ExportQuizResults renders every attempt at the actor's quiz as an XLSX workbook.
func (s *exportService) ExportQuizResults(ctx context.Context, quizID, actorID string) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_quiz_results", actorID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if _, err := s.repo.Quiz().GetOwned(ctx, quizID, actorID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotOwned
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	results, err := s.repo.Result().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	students, err := studentRefs(ctx, s.repo, studentIDsOf(results))
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, header := range resultHeaders {
		f.SetCellValue(resultsSheet, fmt.Sprintf("%c1", 'A'+i), header)
	}

	for rowIndex, r := range results {
		name, email := "Unknown", ""
		if st := students[r.StudentID]; st != nil {
			name, email = st.Name, st.Email
		}
		certificate := ""
		if r.HasCertificate() {
			certificate = *r.CertificateNumber
		}

		row := []interface{}{
			name,
			email,
			r.Score,
			r.TotalQuestions,
			r.CorrectAnswers,
			r.WrongAnswers,
			certificate,
			r.AttemptedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			f.SetCellValue(resultsSheet, fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2), value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
