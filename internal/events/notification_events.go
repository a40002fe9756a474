package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of domain events
type EventType string

const (
	EventQuizPublished     EventType = "quiz.published"
	EventAttemptSubmitted  EventType = "attempt.submitted"
	EventCertificateIssued EventType = "certificate.issued"
	EventEnrollmentCreated EventType = "enrollment.created"
)

const (
	eventSource  = "academy-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuizPublishedEvent struct {
	QuizID      string `json:"quiz_id"`
	QuizTitle   string `json:"quiz_title"`
	CourseID    string `json:"course_id"`
	IsFinalExam bool   `json:"is_final_exam"`
	CreatorID   string `json:"creator_id"`
}

type AttemptSubmittedEvent struct {
	ResultID       string    `json:"result_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	StudentID      string    `json:"student_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type CertificateIssuedEvent struct {
	ResultID          string `json:"result_id"`
	CertificateNumber string `json:"certificate_number"`
	StudentID         string `json:"student_id"`
	CourseName        string `json:"course_name"`
	Delivered         bool   `json:"delivered"`
}

type EnrollmentCreatedEvent struct {
	EnrollmentID string `json:"enrollment_id"`
	StudentID    string `json:"student_id"`
	CourseID     string `json:"course_id"`
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewQuizPublishedEvent(quizID, title, courseID string, isFinalExam bool, creatorID string) *Event {
	return newEvent(EventQuizPublished, QuizPublishedEvent{
		QuizID:      quizID,
		QuizTitle:   title,
		CourseID:    courseID,
		IsFinalExam: isFinalExam,
		CreatorID:   creatorID,
	})
}

func NewAttemptSubmittedEvent(resultID, quizID, title, studentID string, score, total int, submittedAt time.Time) *Event {
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		ResultID:       resultID,
		QuizID:         quizID,
		QuizTitle:      title,
		StudentID:      studentID,
		Score:          score,
		TotalQuestions: total,
		SubmittedAt:    submittedAt,
	})
}

func NewCertificateIssuedEvent(resultID, number, studentID, courseName string, delivered bool) *Event {
	return newEvent(EventCertificateIssued, CertificateIssuedEvent{
		ResultID:          resultID,
		CertificateNumber: number,
		StudentID:         studentID,
		CourseName:        courseName,
		Delivered:         delivered,
	})
}

func NewEnrollmentCreatedEvent(enrollmentID, studentID, courseID string) *Event {
	return newEvent(EventEnrollmentCreated, EnrollmentCreatedEvent{
		EnrollmentID: enrollmentID,
		StudentID:    studentID,
		CourseID:     courseID,
	})
}

func GenerateEventID() string {
	return uuid.NewString()
}
