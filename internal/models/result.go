package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerDetail is the persisted per-question outcome of a graded attempt.
type AnswerDetail struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	IsCorrect         bool     `json:"isCorrect"`
}

// QuizResult is one graded attempt. It is immutable after creation except for
// the lazily assigned certificate number.
type QuizResult struct {
	ID                string                             `json:"id" gorm:"primaryKey;size:36"`
	StudentID         string                             `json:"studentId" gorm:"not null;size:36;index:idx_result_student_quiz"`
	QuizID            string                             `json:"quizId" gorm:"not null;size:36;index:idx_result_student_quiz;index"`
	CourseID          string                             `json:"courseId" gorm:"not null;size:36;index"`
	Score             int                                `json:"score" gorm:"not null"`
	TotalMarks        int                                `json:"totalMarks" gorm:"not null"`
	TotalQuestions    int                                `json:"totalQuestions" gorm:"not null"`
	CorrectAnswers    int                                `json:"correctAnswers" gorm:"not null"`
	WrongAnswers      int                                `json:"wrongAnswers" gorm:"not null"`
	Answers           datatypes.JSONType[[]AnswerDetail] `json:"answers" gorm:"type:jsonb;not null"`
	SubmittedFile     *string                            `json:"submittedFile,omitempty" gorm:"size:500"`
	CertificateNumber *string                            `json:"certificateNumber,omitempty" gorm:"uniqueIndex;size:32"`
	AttemptedAt       time.Time                          `json:"attemptedAt" gorm:"not null;index"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// AnswerList returns the stored answers in question order.
func (r *QuizResult) AnswerList() []AnswerDetail {
	return r.Answers.Data()
}

// HasCertificate reports whether a certificate number has been assigned.
func (r *QuizResult) HasCertificate() bool {
	return r.CertificateNumber != nil && *r.CertificateNumber != ""
}

// Sequence is a named monotonically increasing counter.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}

func (Sequence) TableName() string {
	return "sequences"
}
