package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/plateful/backend/config"
)

// ImageStore persists a decoded image and returns the URL it is served from.
type ImageStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

var extByMime = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeBase64Image decodes a payload image. Both data-URI form
// ("data:image/png;base64,...") and bare base64 are accepted; bare payloads
// default to png.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	ext := "png"
	if strings.HasPrefix(payload, "data:") {
		head, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fieldError("image", "malformed data URI")
		}
		mime := strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64")
		e, ok := extByMime[mime]
		if !ok {
			return nil, "", fieldError("image", "unsupported image type "+mime)
		}
		ext = e
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fieldError("image", "invalid base64 image data")
	}
	if len(data) == 0 {
		return nil, "", fieldError("image", "empty image")
	}
	return data, ext, nil
}

// LocalImageStore writes images under a media directory and serves them from
// the /media/ static route. Used when no S3 bucket is configured.
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, BaseURL: "/media"}
}

func (s *LocalImageStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(filepath.Join(s.Dir, "recipes"), 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + "." + ext
	path := filepath.Join(s.Dir, "recipes", name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/recipes/" + name, nil
}

// S3ImageStore uploads images to a public-read S3 bucket.
type S3ImageStore struct {
	s3cfg *config.S3Config
}

func NewS3ImageStore(s3cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3cfg: s3cfg}
}

func (s *S3ImageStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if s.s3cfg == nil || s.s3cfg.Client == nil {
		return "", errors.New("s3 storage is not configured")
	}
	key := "recipes/" + uuid.NewString() + "." + ext
	contentType := "image/" + ext
	if ext == "jpg" {
		contentType = "image/jpeg"
	}
	_, err := s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, key), nil
}
