package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxAvatarDimension = 512
	MaxDocumentSize    = 10 << 20
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
)

var documentContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type FileService interface {
	// UploadAvatar validates, down-scales and stores a staff avatar, returning its storage path.
	UploadAvatar(ctx context.Context, staffID string, file io.Reader, filename string) (string, error)

	// UploadDocument stores a staff document, returning its storage path and content type.
	UploadDocument(ctx context.Context, staffID string, file io.Reader, filename string, size int64, documentType string) (string, string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAvatar uploads a staff avatar
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, staffID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("%w: only jpg, jpeg, png allowed", ErrInvalidFileType)
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxDocumentSize {
		return "", ErrFileTooLarge
	}

	scaled, contentType, outExt, err := downscaleImage(buffer, MaxAvatarDimension)
	if err != nil {
		return "", err
	}

	newFilename := fmt.Sprintf("%s-%s%s", staffID, uuid.New().String(), outExt)
	key := path.Join("avatars", staffID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(scaled), key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return uploadedPath, nil
}

// UploadDocument uploads a staff document
func (s *fileServiceImpl) UploadDocument(ctx context.Context, staffID string, file io.Reader, filename string, size int64, documentType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := documentContentTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: only pdf, jpg, png, doc, docx allowed", ErrInvalidFileType)
	}
	if size > MaxDocumentSize {
		return "", "", ErrFileTooLarge
	}

	newFilename := fmt.Sprintf("%s-%s%s", documentType, uuid.New().String(), ext)
	key := path.Join("documents", staffID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, io.LimitReader(file, MaxDocumentSize), key, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload document: %w", err)
	}

	return uploadedPath, contentType, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// ==================== HELPER FUNCTIONS ====================

// downscaleImage shrinks an image so neither side exceeds maxDim, keeping the aspect ratio.
// PNGs stay PNG (transparency); everything else is re-encoded as JPEG.
func downscaleImage(buffer []byte, maxDim int) ([]byte, string, string, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: failed to decode image: %v", ErrInvalidFileType, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxDim || height > maxDim {
		if width >= height {
			height = height * maxDim / width
			width = maxDim
		} else {
			width = width * maxDim / height
			height = maxDim
		}
		img = resizeImage(img, max(width, 1), max(height, 1))
	}

	buf := new(bytes.Buffer)
	if format == "png" {
		if err := png.Encode(buf, img); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return buf.Bytes(), "image/png", ".png", nil
	}

	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", ".jpg", nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
