package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/validator"
)

type enrollmentService struct {
	repo        repositories.Repository
	notifier    notifier.Notifier
	publisher   events.EventPublisher
	validator   *validator.Validator
	callTimeout time.Duration
	logger      *ServiceLogger
	now         func() time.Time
}

func NewEnrollmentService(deps Dependencies) EnrollmentService {
	deps = deps.withDefaults()
	return &enrollmentService{
		repo:        deps.Repo,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		validator:   deps.Validator,
		callTimeout: deps.CallTimeout,
		logger:      NewServiceLogger(deps.Logger, "enrollment"),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, req *EnrollRequest, studentID string) (enrollment *models.Enrollment, err error) {
	op := s.logger.WithOperation(ctx, "enroll", studentID)
	defer func() { op.LogResult(req.CourseID, "course", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	enrollment = &models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   course.ID,
		Phone:      req.Phone,
		Message:    req.Message,
		Status:     models.EnrollmentActive,
		EnrolledAt: s.now().UTC(),
	}
	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.confirm(ctx, studentID, course)

	event := events.NewEnrollmentCreatedEvent(enrollment.ID, studentID, course.ID)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish enrollment event", "enrollment_id", enrollment.ID, "error", err)
	}
	return enrollment, nil
}

// confirm e-mails the student. Failures never undo the enrollment.
func (s *enrollmentService) confirm(ctx context.Context, studentID string, course *models.Course) {
	student, err := s.repo.Account().GetByID(ctx, studentID)
	if err != nil {
		s.logger.Logger().WarnContext(ctx, "Enrollment confirmation skipped", "student_id", studentID, "error", err)
		return
	}

	html, err := notifier.RenderEnrollmentEmail(notifier.EnrollmentEmail{
		StudentName: student.Name,
		CourseName:  course.Subject,
	})
	if err != nil {
		s.logger.Logger().WarnContext(ctx, "Enrollment confirmation render failed", "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	err = s.notifier.Send(sendCtx, notifier.Message{
		To:      student.Email,
		ToName:  student.Name,
		Subject: "Enrollment Confirmed: " + course.Subject,
		HTML:    html,
	})
	if err != nil {
		s.logger.Logger().WarnContext(ctx, "Enrollment confirmation not delivered",
			"student_id", studentID,
			"course_id", course.ID,
			"error", err)
	}
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, studentID string) ([]*EnrollmentView, error) {
	enrollments, err := s.repo.Enrollment().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return s.views(ctx, enrollments, false)
}

func (s *enrollmentService) All(ctx context.Context) ([]*EnrollmentView, error) {
	enrollments, err := s.repo.Enrollment().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return s.views(ctx, enrollments, true)
}

func (s *enrollmentService) views(ctx context.Context, enrollments []*models.Enrollment, withStudents bool) ([]*EnrollmentView, error) {
	courseIDs := make([]string, 0, len(enrollments))
	studentIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
		studentIDs = append(studentIDs, e.StudentID)
	}

	courses := make(map[string]*models.Course, len(courseIDs))
	if len(courseIDs) > 0 {
		list, err := s.repo.Course().GetByIDs(ctx, courseIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load courses: %w", err)
		}
		for _, c := range list {
			courses[c.ID] = c
		}
	}

	students := map[string]*StudentRef{}
	if withStudents {
		var err error
		if students, err = studentRefs(ctx, s.repo, studentIDs); err != nil {
			return nil, err
		}
	}

	out := make([]*EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, &EnrollmentView{
			Enrollment: e,
			Course:     courses[e.CourseID],
			Student:    students[e.StudentID],
		})
	}
	return out, nil
}

func (s *enrollmentService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_enrollment", "")
	defer func() { op.LogResult(id, "enrollment", err) }()

	if err := s.repo.Enrollment().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}

func (s *enrollmentService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.Enrollment().DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete enrollments: %w", err)
	}
	s.logger.Logger().WarnContext(ctx, "All enrollments deleted", "count", n)
	return n, nil
}
