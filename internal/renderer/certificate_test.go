package renderer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPDFRenderer_RenderWithoutTemplate(t *testing.T) {
	r := NewPDFRenderer(filepath.Join(t.TempDir(), "missing.png"), discardLogger())

	out, err := r.Render(context.Background(), CertificateFields{
		StudentName:       "Zoë Smith",
		CourseName:        "Machine Learning",
		Date:              "March 3, 2025",
		CertificateNumber: "TDSA111111",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFRenderer_CancelledContext(t *testing.T) {
	r := NewPDFRenderer("", discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, CertificateFields{StudentName: "A"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveTemplate(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", resolveTemplate(dir))
	assert.Equal(t, "", resolveTemplate(""))

	jpeg := filepath.Join(dir, "Template.jpeg")
	require.NoError(t, os.WriteFile(jpeg, []byte("x"), 0o644))
	assert.Equal(t, jpeg, resolveTemplate(dir))
	assert.Equal(t, jpeg, resolveTemplate(jpeg))
}
