package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// maxParallelSends bounds concurrent deliveries of one bulk notification.
const maxParallelSends = 8

type notificationService struct {
	repo        repositories.Repository
	notifier    notifier.Notifier
	callTimeout time.Duration
	logger      *ServiceLogger
}

func NewNotificationService(deps Dependencies) NotificationService {
	deps = deps.withDefaults()
	return &notificationService{
		repo:        deps.Repo,
		notifier:    deps.Notifier,
		callTimeout: deps.CallTimeout,
		logger:      NewServiceLogger(deps.Logger, "notification"),
	}
}

// NotifyCourseStudents e-mails update to every student enrolled in the course.
// A failed delivery is counted and logged; it never stops the others.
func (s *notificationService) NotifyCourseStudents(ctx context.Context, courseID, update string) (res *BulkResult, err error) {
	op := s.logger.WithOperation(ctx, "notify_course_students", "")
	defer func() { op.LogResult(courseID, "course", err) }()

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return &BulkResult{}, nil
	}

	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	students, err := s.repo.Account().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	var sent, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(maxParallelSends)
	for _, student := range students {
		g.Go(func() error {
			if err := s.sendUpdate(ctx, student, course, update); err != nil {
				failed.Add(1)
				s.logger.Logger().WarnContext(ctx, "Course update not delivered",
					"student_id", student.ID,
					"course_id", courseID,
					"error", err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return &BulkResult{Sent: int(sent.Load()), Failed: int(failed.Load())}, nil
}

func (s *notificationService) sendUpdate(ctx context.Context, student *models.Account, course *models.Course, update string) error {
	html, err := notifier.RenderCourseUpdateEmail(notifier.CourseUpdateEmail{
		StudentName: student.Name,
		CourseName:  course.Subject,
		Update:      update,
	})
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.notifier.Send(sendCtx, notifier.Message{
		To:      student.Email,
		ToName:  student.Name,
		Subject: "📢 Update: " + update,
		HTML:    html,
	})
}

// QuizAlert is the update line announced when a quiz is published.
func QuizAlert(title string, isFinalExam bool) string {
	kind := "Quiz"
	if isFinalExam {
		kind = "Final Exam"
	}
	return fmt.Sprintf("New %s Alert: %s", kind, title)
}

// RegisterEventHandlers subscribes the services to the events they react to.
func RegisterEventHandlers(consumer *events.Consumer, manager ServiceManager) {
	consumer.Handle(events.EventQuizPublished, func(ctx context.Context, data json.RawMessage) error {
		var payload events.QuizPublishedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode quiz event: %w", err)
		}
		_, err := manager.Notification().NotifyCourseStudents(ctx, payload.CourseID, QuizAlert(payload.QuizTitle, payload.IsFinalExam))
		if IsNotFound(err) {
			return nil
		}
		return err
	})
}
