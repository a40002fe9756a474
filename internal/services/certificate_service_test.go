package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/renderer"
	"gorm.io/datatypes"
)

func (f *fixture) result(t *testing.T, student *models.Account, course *models.Course, certificate string) *models.QuizResult {
	t.Helper()
	r := &models.QuizResult{
		ID:             uuid.NewString(),
		StudentID:      student.ID,
		QuizID:         uuid.NewString(),
		CourseID:       course.ID,
		Score:          2,
		TotalMarks:     2,
		TotalQuestions: 2,
		CorrectAnswers: 2,
		Answers:        datatypes.NewJSONType([]models.AnswerDetail{}),
		AttemptedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	if certificate != "" {
		r.CertificateNumber = &certificate
	}
	require.NoError(t, f.store.Result().CreateWithinLimit(context.Background(), r, MaxAttempts))
	return r
}

func TestCertificateService_NumberingStartsAtFloor(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics")
	first := f.result(t, student, course, "")
	second := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())
	ctx := context.Background()

	n1, err := svc.EnsureCertificateNumber(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "TDSA111111", n1)

	n2, err := svc.EnsureCertificateNumber(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "TDSA111112", n2)

	again, err := svc.EnsureCertificateNumber(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, n1, again)
}

func TestCertificateService_NumberingContinuesFromExisting(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics")
	f.result(t, student, course, "TDSA200000")
	fresh := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())

	number, err := svc.EnsureCertificateNumber(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "TDSA200001", number)
}

func TestCertificateService_ConcurrentEnsureAgrees(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics")
	result := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())

	const workers = 8
	numbers := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := svc.EnsureCertificateNumber(context.Background(), result.ID)
			if err == nil {
				numbers[i] = n
			}
		}(i)
	}
	wg.Wait()

	stored, err := f.store.Result().GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	require.True(t, stored.HasCertificate())
	for _, n := range numbers {
		assert.Equal(t, *stored.CertificateNumber, n)
	}
}

func TestCertificateService_UnknownResult(t *testing.T) {
	f := newFixture(t)
	svc := NewCertificateService(f.deps())

	_, err := svc.EnsureCertificateNumber(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestCertificateService_BuildPayloadMentorPriority(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	withMentor := f.course(t, "Statistics", "Dr. Rao")
	withoutMentor := f.course(t, "Python")
	svc := NewCertificateService(f.deps())
	ctx := context.Background()

	tests := []struct {
		name     string
		course   *models.Course
		override string
		want     string
	}{
		{name: "override wins", course: withMentor, override: "Guest Lecturer", want: "Guest Lecturer"},
		{name: "course mentor", course: withMentor, want: "Dr. Rao"},
		{name: "default mentor", course: withoutMentor, want: renderer.DefaultMentor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.result(t, f.account(t, uuid.NewString()[:8], models.RoleStudent), tt.course, "")
			payload, err := svc.BuildCertificatePayload(ctx, result.ID, tt.override)
			require.NoError(t, err)
			assert.Equal(t, result.StudentID, payload.StudentID)
			assert.Equal(t, tt.want, payload.MentorName)
			assert.Equal(t, "March 14, 2025", payload.Date)
			assert.Equal(t, tt.course.Subject, payload.CourseName)
		})
	}

	orphan := f.result(t, student, &models.Course{ID: "gone"}, "")
	payload, err := svc.BuildCertificatePayload(ctx, orphan.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Course Assessment", payload.CourseName)
	assert.Equal(t, renderer.DefaultMentor, payload.MentorName)
}

func TestCertificateService_Send(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics", "Dr. Rao")
	result := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())

	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(fields renderer.CertificateFields) bool {
		return fields.CertificateNumber == "TDSA111111" && fields.MentorName == "Dr. Rao"
	})).Return([]byte("%PDF-1.3"), nil).Once()
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notifier.Message) bool {
		return msg.To == student.Email &&
			msg.Subject == "🏆 Certificate of Achievement: Statistics" &&
			len(msg.Attachments) == 1 &&
			msg.Attachments[0].Filename == "asha_Certificate.pdf" &&
			msg.Attachments[0].ContentType == "application/pdf"
	})).Return(nil).Once()

	resp, err := svc.Send(context.Background(), result.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "TDSA111111", resp.CertificateNumber)
	assert.Equal(t, "Certificate sent successfully to "+student.Email, resp.Message)

	issued := f.publisher.EventsOfType(events.EventCertificateIssued)
	require.Len(t, issued, 1)
	event := issued[0].Data.(events.CertificateIssuedEvent)
	assert.True(t, event.Delivered)
	assert.Equal(t, student.ID, event.StudentID)
	assert.Equal(t, result.ID, event.ResultID)
	assert.Equal(t, "Statistics", event.CourseName)

	f.renderer.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCertificateService_SendDeliveryFailureKeepsNumber(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics")
	result := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())

	f.renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF-1.3"), nil)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	_, err := svc.Send(context.Background(), result.ID, "")
	require.Error(t, err)
	dfe, ok := IsDeliveryFailed(err)
	require.True(t, ok)
	assert.Equal(t, "TDSA111111", dfe.CertificateNumber)

	stored, err := f.store.Result().GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "TDSA111111", *stored.CertificateNumber)

	issued := f.publisher.EventsOfType(events.EventCertificateIssued)
	require.Len(t, issued, 1)
	assert.False(t, issued[0].Data.(events.CertificateIssuedEvent).Delivered)
	assert.Equal(t, student.ID, issued[0].Data.(events.CertificateIssuedEvent).StudentID)
}

func TestCertificateService_SendRenderFailure(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "Statistics")
	result := f.result(t, student, course, "")
	svc := NewCertificateService(f.deps())

	f.renderer.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("template missing"))

	_, err := svc.Send(context.Background(), result.ID, "")
	require.Error(t, err)
	_, delivery := IsDeliveryFailed(err)
	assert.False(t, delivery)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	stored, err := f.store.Result().GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasCertificate())
}
