package notifier

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCertificateEmail_EscapesInput(t *testing.T) {
	html, err := RenderCertificateEmail(CertificateEmail{
		StudentName:       "<b>Ada</b>",
		CourseName:        "Data Science",
		Date:              "March 3, 2025",
		MentorName:        "Shivangini Gupta",
		CertificateNumber: "TDSA111111",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "&lt;b&gt;Ada&lt;/b&gt;")
	assert.Contains(t, html, "TDSA111111")
	assert.Contains(t, html, "Data Science")
}

func TestRenderCourseUpdateEmail(t *testing.T) {
	html, err := RenderCourseUpdateEmail(CourseUpdateEmail{StudentName: "Ada", CourseName: "ML", Update: "New Quiz Alert: Week 1"})
	require.NoError(t, err)
	assert.Contains(t, html, "New Quiz Alert: Week 1")
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.ErrorIs(t, n.Send(context.Background(), Message{}), ErrNoRecipient)
	assert.NoError(t, n.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
}
