package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdsa-academy/academy-service/internal/auth"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/renderer"
	"github.com/tdsa-academy/academy-service/internal/repositories/memory"
	"gorm.io/datatypes"
)

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	args := m.Called(ctx, name, r)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of notifier.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notifier.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockRenderer is a mock implementation of renderer.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, fields renderer.CertificateFields) ([]byte, error) {
	args := m.Called(ctx, fields)
	var out []byte
	if b := args.Get(0); b != nil {
		out = b.([]byte)
	}
	return out, args.Error(1)
}

type fixture struct {
	store     *memory.Store
	tokens    *auth.TokenManager
	blobs     *MockBlobStore
	notifier  *MockNotifier
	renderer  *MockRenderer
	publisher *events.MockEventPublisher
	logger    *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:     memory.NewStore(),
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
		blobs:     &MockBlobStore{},
		notifier:  &MockNotifier{},
		renderer:  &MockRenderer{},
		publisher: events.NewMockEventPublisher(logger),
		logger:    logger,
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Repo:        f.store,
		Tokens:      f.tokens,
		Blobs:       f.blobs,
		Notifier:    f.notifier,
		Renderer:    f.renderer,
		Publisher:   f.publisher,
		Logger:      f.logger,
		CallTimeout: time.Second,
	}
}

func (f *fixture) account(t *testing.T, name string, role models.Role) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:               uuid.NewString(),
		Name:             name,
		Email:            models.NormalizeEmail(name + "@example.com"),
		PasswordHash:     "x",
		Role:             role,
		CurrentSessionID: auth.NewSessionID(),
	}
	require.NoError(t, f.store.Account().Create(context.Background(), a))
	return a
}

func (f *fixture) course(t *testing.T, subject string, mentors ...string) *models.Course {
	t.Helper()
	var list []models.Mentor
	for _, m := range mentors {
		list = append(list, models.Mentor{Name: m})
	}
	c := &models.Course{
		ID:      uuid.NewString(),
		Subject: subject,
		Level:   models.LevelBeginner,
		Mentors: datatypes.NewJSONType(list),
	}
	require.NoError(t, f.store.Course().Create(context.Background(), c))
	return c
}

func (f *fixture) assign(t *testing.T, faculty *models.Account, course *models.Course) {
	t.Helper()
	require.NoError(t, f.store.FacultyCourse().Create(context.Background(), &models.FacultyCourse{
		ID:            uuid.NewString(),
		FacultyID:     faculty.ID,
		CourseID:      course.ID,
		CourseSubject: course.Subject,
	}))
}

func (f *fixture) enroll(t *testing.T, student *models.Account, course *models.Course) {
	t.Helper()
	require.NoError(t, f.store.Enrollment().Create(context.Background(), &models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  student.ID,
		CourseID:   course.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}))
}

// sampleQuestions returns one single-choice question (q1, correct b) and one
// multi-choice question (q2, correct a and c).
func sampleQuestions() []models.Question {
	return []models.Question{
		{
			ID:   "q1",
			Text: "2 + 2?",
			Type: models.QuestionSingleChoice,
			Options: []models.Option{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4", IsCorrect: true},
			},
		},
		{
			ID:   "q2",
			Text: "Primes?",
			Type: models.QuestionMultiChoice,
			Options: []models.Option{
				{ID: "a", Text: "2", IsCorrect: true},
				{ID: "b", Text: "4"},
				{ID: "c", Text: "5", IsCorrect: true},
			},
		},
	}
}

func (f *fixture) quiz(t *testing.T, course *models.Course, creator *models.Account, final bool) *models.Quiz {
	t.Helper()
	q := &models.Quiz{
		ID:          uuid.NewString(),
		Title:       "Week 1",
		IsFinalExam: final,
		CourseID:    course.ID,
		CreatedBy:   creator.ID,
		Questions:   datatypes.NewJSONType(sampleQuestions()),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, f.store.Quiz().Create(context.Background(), q))
	return q
}
