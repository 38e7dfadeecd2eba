package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	return NewFileService(local), local
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestUploadAvatar_DownscalesLargeImage(t *testing.T) {
	svc, local := newTestService(t)
	ctx := context.Background()

	path, err := svc.UploadAvatar(ctx, "staff-1", bytes.NewReader(encodePNG(t, 1024, 768)), "me.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "avatars/staff-1/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	rc, err := local.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	cfg, _, err := image.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 384, cfg.Height)
}

func TestUploadAvatar_RejectsUnsupportedType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UploadAvatar(context.Background(), "staff-1", strings.NewReader("GIF89a"), "me.gif")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadAvatar_RejectsCorruptImage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UploadAvatar(context.Background(), "staff-1", strings.NewReader("not an image"), "me.jpg")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadDocument(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	path, contentType, err := svc.UploadDocument(ctx, "staff-1", strings.NewReader("%PDF-1.4"), "Contract.PDF", 8, "contract")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(path, "documents/staff-1/contract-"))

	_, _, err = svc.UploadDocument(ctx, "staff-1", strings.NewReader("x"), "run.exe", 1, "other")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, _, err = svc.UploadDocument(ctx, "staff-1", strings.NewReader("x"), "big.pdf", MaxDocumentSize+1, "other")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
