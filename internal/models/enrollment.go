package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type Enrollment struct {
	ID         string           `json:"id" gorm:"primaryKey;size:36"`
	StudentID  string           `json:"studentId" gorm:"not null;size:36;uniqueIndex:idx_enrollment_student_course"`
	CourseID   string           `json:"courseId" gorm:"not null;size:36;uniqueIndex:idx_enrollment_student_course;index"`
	Phone      string           `json:"phone,omitempty" gorm:"size:20"`
	Message    string           `json:"message,omitempty" gorm:"type:text"`
	Status     EnrollmentStatus `json:"status" gorm:"size:20;default:active"`
	EnrolledAt time.Time        `json:"enrolledAt" gorm:"not null"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// FacultyCourse assigns a faculty member to a course they may author quizzes for.
type FacultyCourse struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	FacultyID     string    `json:"facultyId" gorm:"not null;size:36;uniqueIndex:idx_faculty_course"`
	CourseID      string    `json:"courseId" gorm:"not null;size:36;uniqueIndex:idx_faculty_course"`
	CourseSubject string    `json:"courseSubject" gorm:"size:200"`
	AssignedAt    time.Time `json:"assignedAt"`
}

func (FacultyCourse) TableName() string {
	return "faculty_courses"
}

type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"not null;size:36;uniqueIndex:idx_review_user_course"`
	CourseID  string    `json:"courseId" gorm:"not null;size:36;uniqueIndex:idx_review_user_course;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}
