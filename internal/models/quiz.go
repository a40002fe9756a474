package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	// QuestionSingleChoice accepts exactly one correct option.
	QuestionSingleChoice QuestionType = "radio"
	// QuestionMultiChoice accepts one or more correct options, graded by exact set match.
	QuestionMultiChoice QuestionType = "checkbox"
)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"questionText" validate:"required,max=1000"`
	Description string       `json:"questionDescription,omitempty" validate:"max=2000"`
	Type        QuestionType `json:"type" validate:"required,question_type"`
	Options     []Option     `json:"options" validate:"required,dive"`
}

// CorrectOptionIDs returns the ids of the options flagged correct, in option order.
func (q Question) CorrectOptionIDs() []string {
	ids := make([]string, 0, 1)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

type Quiz struct {
	ID           string                         `json:"id" gorm:"primaryKey;size:36"`
	Title        string                         `json:"title" gorm:"not null;size:200"`
	Description  string                         `json:"description" gorm:"type:text"`
	Instructions string                         `json:"instructions" gorm:"type:text"`
	IsFinalExam  bool                           `json:"isFinalExam" gorm:"default:false"`
	CourseID     string                         `json:"courseId" gorm:"not null;size:36;index"`
	CreatedBy    string                         `json:"createdBy" gorm:"not null;size:36;index"`
	Questions    datatypes.JSONType[[]Question] `json:"questions" gorm:"type:jsonb;not null"`
	CreatedAt    time.Time                      `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuestionList returns the quiz questions in authoring order.
func (q *Quiz) QuestionList() []Question {
	return q.Questions.Data()
}

// StudentOption is an option stripped of correctness metadata.
type StudentOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type StudentQuestion struct {
	ID          string          `json:"id"`
	Text        string          `json:"questionText"`
	Description string          `json:"questionDescription,omitempty"`
	Type        QuestionType    `json:"type"`
	Options     []StudentOption `json:"options"`
}

// StudentQuiz is the projection of a Quiz that is safe to send before grading.
type StudentQuiz struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Instructions string            `json:"instructions"`
	IsFinalExam  bool              `json:"isFinalExam"`
	CourseID     string            `json:"courseId"`
	Questions    []StudentQuestion `json:"questions"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Sanitize drops every isCorrect flag.
func (q *Quiz) Sanitize() *StudentQuiz {
	questions := q.QuestionList()
	out := &StudentQuiz{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		Instructions: q.Instructions,
		IsFinalExam:  q.IsFinalExam,
		CourseID:     q.CourseID,
		Questions:    make([]StudentQuestion, 0, len(questions)),
		CreatedAt:    q.CreatedAt,
	}
	for _, question := range questions {
		sq := StudentQuestion{
			ID:          question.ID,
			Text:        question.Text,
			Description: question.Description,
			Type:        question.Type,
			Options:     make([]StudentOption, 0, len(question.Options)),
		}
		for _, opt := range question.Options {
			sq.Options = append(sq.Options, StudentOption{ID: opt.ID, Text: opt.Text})
		}
		out.Questions = append(out.Questions, sq)
	}
	return out
}
