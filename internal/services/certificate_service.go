package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/renderer"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

const (
	CertificatePrefix = "TDSA"
	// CertificateFloor is the first number ever issued.
	CertificateFloor int64 = 111111

	certificateSequence = "certificate_number"
	fallbackCourseName  = "Course Assessment"
	certificateDate     = "January 2, 2006"
	assignAttempts      = 3
)

type certificateService struct {
	repo        repositories.Repository
	sequence    repositories.SequenceRepository
	renderer    renderer.Renderer
	notifier    notifier.Notifier
	publisher   events.EventPublisher
	callTimeout time.Duration
	logger      *ServiceLogger
	now         func() time.Time
}

func NewCertificateService(deps Dependencies) CertificateService {
	deps = deps.withDefaults()
	return &certificateService{
		repo:        deps.Repo,
		sequence:    deps.Sequence,
		renderer:    deps.Renderer,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		callTimeout: deps.CallTimeout,
		logger:      NewServiceLogger(deps.Logger, "certificate"),
		now:         time.Now,
	}
}

// EnsureCertificateNumber returns the result's certificate number, allocating
// one on first use. Concurrent callers for the same result get the same number.
func (s *certificateService) EnsureCertificateNumber(ctx context.Context, resultID string) (string, error) {
	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrResultNotFound
		}
		return "", fmt.Errorf("failed to load result: %w", err)
	}
	if result.HasCertificate() {
		return *result.CertificateNumber, nil
	}

	for i := 0; i < assignAttempts; i++ {
		next, err := s.sequence.Next(ctx, certificateSequence, s.seed)
		if err != nil {
			return "", fmt.Errorf("failed to allocate certificate number: %w", err)
		}
		number := fmt.Sprintf("%s%d", CertificatePrefix, next)

		assigned, err := s.repo.Result().AssignCertificateNumber(ctx, resultID, number)
		if errors.Is(err, repositories.ErrDuplicate) {
			s.logger.Logger().WarnContext(ctx, "Certificate number already taken, allocating another",
				"certificate_number", number)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to assign certificate number: %w", err)
		}
		if assigned {
			s.logger.Logger().InfoContext(ctx, "Certificate number assigned",
				"result_id", resultID,
				"certificate_number", number)
			return number, nil
		}

		// Another request numbered this result first; the allocated value is skipped.
		stored, err := s.repo.Result().GetByID(ctx, resultID)
		if err != nil {
			return "", fmt.Errorf("failed to reload result: %w", err)
		}
		if stored.HasCertificate() {
			return *stored.CertificateNumber, nil
		}
	}
	return "", fmt.Errorf("failed to assign certificate number after %d attempts", assignAttempts)
}

// seed reports the last number already consumed, never below the floor.
func (s *certificateService) seed(ctx context.Context) (int64, error) {
	highest, err := s.repo.Result().MaxCertificateSequence(ctx, CertificatePrefix)
	if err != nil {
		return 0, err
	}
	if highest < CertificateFloor-1 {
		highest = CertificateFloor - 1
	}
	return highest, nil
}

func (s *certificateService) BuildCertificatePayload(ctx context.Context, resultID, overrideMentor string) (*CertificatePayload, error) {
	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	student, err := s.repo.Account().GetByID(ctx, result.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewValidationError("student", "Student record missing.", result.StudentID)
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	courseName := fallbackCourseName
	mentor := ""
	course, err := s.repo.Course().GetByID(ctx, result.CourseID)
	switch {
	case err == nil:
		if course.Subject != "" {
			courseName = course.Subject
		}
		mentor = course.PrimaryMentor()
	case !repositories.IsNotFoundError(err):
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if strings.TrimSpace(overrideMentor) != "" {
		mentor = strings.TrimSpace(overrideMentor)
	}
	if mentor == "" {
		mentor = renderer.DefaultMentor
	}

	issued := result.AttemptedAt
	if issued.IsZero() {
		issued = s.now()
	}

	payload := &CertificatePayload{
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		CourseName:   courseName,
		Date:         issued.Format(certificateDate),
		MentorName:   mentor,
	}
	if result.HasCertificate() {
		payload.CertificateNumber = *result.CertificateNumber
	}
	return payload, nil
}

func (s *certificateService) Send(ctx context.Context, resultID, customMentor string) (resp *CertificateSendResponse, err error) {
	op := s.logger.WithOperation(ctx, "send_certificate", "")
	defer func() { op.LogResult(resultID, "quiz_result", err) }()

	number, err := s.EnsureCertificateNumber(ctx, resultID)
	if err != nil {
		return nil, err
	}

	payload, err := s.BuildCertificatePayload(ctx, resultID, customMentor)
	if err != nil {
		return nil, err
	}
	payload.CertificateNumber = number

	renderCtx, cancelRender := context.WithTimeout(ctx, s.callTimeout)
	pdf, err := s.renderer.Render(renderCtx, renderer.CertificateFields{
		StudentName:       payload.StudentName,
		CourseName:        payload.CourseName,
		Date:              payload.Date,
		MentorName:        payload.MentorName,
		CertificateNumber: number,
	})
	cancelRender()
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate: %w", err)
	}

	html, err := notifier.RenderCertificateEmail(notifier.CertificateEmail{
		StudentName:       payload.StudentName,
		CourseName:        payload.CourseName,
		Date:              payload.Date,
		MentorName:        payload.MentorName,
		CertificateNumber: number,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate email: %w", err)
	}

	sendCtx, cancelSend := context.WithTimeout(ctx, s.callTimeout)
	sendErr := s.notifier.Send(sendCtx, notifier.Message{
		To:      payload.StudentEmail,
		ToName:  payload.StudentName,
		Subject: "🏆 Certificate of Achievement: " + payload.CourseName,
		HTML:    html,
		Attachments: []notifier.Attachment{{
			Filename:    certificateFilename(payload.StudentName),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	})
	cancelSend()

	event := events.NewCertificateIssuedEvent(resultID, number, payload.StudentID, payload.CourseName, sendErr == nil)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish certificate event", "result_id", resultID, "error", err)
	}

	if sendErr != nil {
		return nil, &DeliveryFailedError{CertificateNumber: number, Err: sendErr}
	}

	return &CertificateSendResponse{
		Message:           "Certificate sent successfully to " + payload.StudentEmail,
		CertificateNumber: number,
	}, nil
}

func certificateFilename(studentName string) string {
	name := strings.Join(strings.Fields(studentName), "_")
	if name == "" {
		name = "Student"
	}
	return name + "_Certificate.pdf"
}
