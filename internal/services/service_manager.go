package services

import (
	"log/slog"
	"time"

	"github.com/tdsa-academy/academy-service/internal/auth"
	"github.com/tdsa-academy/academy-service/internal/cache"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/renderer"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/storage"
	"github.com/tdsa-academy/academy-service/internal/validator"
)

// ServiceManager exposes every service to the transport layer
type ServiceManager interface {
	Auth() AuthService
	Quiz() QuizService
	Attempt() AttemptService
	Certificate() CertificateService
	Course() CourseService
	Enrollment() EnrollmentService
	Faculty() FacultyService
	Review() ReviewService
	Notification() NotificationService
	Export() ExportService
}

// Dependencies are the collaborators shared by the services. Unset optional
// collaborators fall back to in-process defaults; Repo is required.
type Dependencies struct {
	Repo          repositories.Repository
	Sequence      repositories.SequenceRepository
	Cache         cache.CacheService
	Tokens        *auth.TokenManager
	Blobs         storage.BlobStore
	Notifier      notifier.Notifier
	Renderer      renderer.Renderer
	Publisher     events.EventPublisher
	Validator     *validator.Validator
	Logger        *slog.Logger
	CallTimeout   time.Duration
	QuizCacheTTL  time.Duration
	BetterAttempt BetterAttempt
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Sequence == nil {
		d.Sequence = d.Repo.Sequence()
	}
	if d.Cache == nil {
		d.Cache = cache.NewNoopCache()
	}
	if d.Notifier == nil {
		d.Notifier = notifier.NewLogNotifier(d.Logger)
	}
	if d.Renderer == nil {
		d.Renderer = renderer.NewPDFRenderer("", d.Logger)
	}
	if d.Publisher == nil {
		d.Publisher = events.NewMockEventPublisher(d.Logger)
	}
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.CallTimeout <= 0 {
		d.CallTimeout = 15 * time.Second
	}
	if d.QuizCacheTTL <= 0 {
		d.QuizCacheTTL = 10 * time.Minute
	}
	if d.BetterAttempt == nil {
		d.BetterAttempt = HigherScore
	}
	return d
}

type serviceManager struct {
	auth         AuthService
	quiz         QuizService
	attempt      AttemptService
	certificate  CertificateService
	course       CourseService
	enrollment   EnrollmentService
	faculty      FacultyService
	review       ReviewService
	notification NotificationService
	export       ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	deps = deps.withDefaults()

	return &serviceManager{
		auth:         NewAuthService(deps),
		quiz:         NewQuizService(deps),
		attempt:      NewAttemptService(deps),
		certificate:  NewCertificateService(deps),
		course:       NewCourseService(deps),
		enrollment:   NewEnrollmentService(deps),
		faculty:      NewFacultyService(deps),
		review:       NewReviewService(deps),
		notification: NewNotificationService(deps),
		export:       NewExportService(deps),
	}
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Quiz() QuizService                 { return m.quiz }
func (m *serviceManager) Attempt() AttemptService           { return m.attempt }
func (m *serviceManager) Certificate() CertificateService   { return m.certificate }
func (m *serviceManager) Course() CourseService             { return m.course }
func (m *serviceManager) Enrollment() EnrollmentService     { return m.enrollment }
func (m *serviceManager) Faculty() FacultyService           { return m.faculty }
func (m *serviceManager) Review() ReviewService             { return m.review }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) Export() ExportService             { return m.export }
