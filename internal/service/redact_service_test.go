package service_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
	"clearpoint/internal/redact"
	"clearpoint/internal/service"
)

func TestRedactService_Redact_FileTooLarge(t *testing.T) {
	svc := service.NewRedactService(redact.NewEngine(150), 4)

	_, err := svc.Redact(context.Background(), redact.Input{
		Filename: "doc.pdf",
		Data:     []byte("%PDF-1.7 more than four bytes"),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestRedactService_Redact_DelegatesToEngine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	svc := service.NewRedactService(redact.NewEngine(150), 0)

	output, err := svc.Redact(context.Background(), redact.Input{
		Filename: "photo.png",
		Data:     buf.Bytes(),
	})
	require.NoError(t, err)
	assert.Equal(t, "redacted_photo.png", output.Filename)
}
