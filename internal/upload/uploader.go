package upload

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"

	"newsharvest/internal/config"
	"newsharvest/internal/logger"
)

// ContentType is set on every uploaded object.
const ContentType = "text/csv"

// Upload errors.
var (
	ErrLocalFileNotFound = errors.New("local file not found")
	ErrNotARegularFile   = errors.New("local path is not a regular file")
	ErrInvalidRemotePath = errors.New("remote path must look like s3://bucket/key")
	ErrUploadFailed      = errors.New("upload failed")
)

// Uploader copies a local file to an object store path in one blocking call.
type Uploader struct {
	client ObjectClient
	logger *logger.Logger
}

// Result describes a completed upload.
type Result struct {
	Bucket string
	Key    string
	ETag   string
	Size   int64
}

// NewUploader creates an uploader backed by a minio client.
func NewUploader(cfg config.UploadConfig, log *logger.Logger) (*Uploader, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewUploaderWithClient(client, log), nil
}

// NewUploaderWithClient creates an uploader with a custom object client (for testing).
func NewUploaderWithClient(client ObjectClient, log *logger.Logger) *Uploader {
	return &Uploader{
		client: client,
		logger: log,
	}
}

// Upload copies localPath to remotePath. There is no multipart, retry or
// checksum verification. Failures are logged and returned.
func (u *Uploader) Upload(ctx context.Context, localPath, remotePath string) (*Result, error) {
	bucket, key, err := ParseRemotePath(remotePath)
	if err != nil {
		u.logger.Error(err.Error())

		return nil, err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", ErrLocalFileNotFound, localPath)
		} else {
			err = fmt.Errorf("failed to stat %s: %w", localPath, err)
		}

		u.logger.Error(err.Error())

		return nil, err
	}

	if !info.Mode().IsRegular() {
		err = fmt.Errorf("%w: %s", ErrNotARegularFile, localPath)
		u.logger.Error(err.Error())

		return nil, err
	}

	opts := minio.PutObjectOptions{
		ContentType:      ContentType,
		DisableMultipart: true,
	}

	uploaded, err := u.client.FPutObject(ctx, bucket, key, localPath, opts)
	if err != nil {
		err = fmt.Errorf("%w: %s -> %s: %w", ErrUploadFailed, localPath, remotePath, err)
		u.logger.Error(err.Error())

		return nil, err
	}

	u.logger.Info(fmt.Sprintf("successfully moved local file %s to %s", localPath, remotePath),
		"bucket", bucket,
		"key", key,
		"size", uploaded.Size)

	return &Result{
		Bucket: bucket,
		Key:    key,
		ETag:   uploaded.ETag,
		Size:   uploaded.Size,
	}, nil
}

// ParseRemotePath splits "s3://bucket/key" (or "bucket/key") into its parts.
func ParseRemotePath(remotePath string) (string, string, error) {
	raw := strings.TrimSpace(remotePath)

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "s3" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidRemotePath, remotePath)
		}

		raw = u.Host + u.Path
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, "/"), "/")
	key = strings.TrimPrefix(key, "/")

	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRemotePath, remotePath)
	}

	return bucket, key, nil
}
