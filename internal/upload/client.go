// Package upload copies finished output files to an S3-compatible object store.
package upload

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"newsharvest/internal/config"
)

// ObjectClient is the subset of the object store API the uploader needs.
type ObjectClient interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Ensure *minio.Client implements ObjectClient.
var _ ObjectClient = (*minio.Client)(nil)

// NewCredentials returns the configured key pair when one is set. Otherwise
// it falls back to the standard AWS chain: environment, shared credentials
// file (AWS_SHARED_CREDENTIALS_FILE / AWS_PROFILE), then the instance role.
func NewCredentials(cfg config.UploadConfig) *credentials.Credentials {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
	}

	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{},
	})
}

// NewMinioClient builds an object store client from the upload config.
// Credentials are resolved lazily, on the first request.
func NewMinioClient(cfg config.UploadConfig) (*minio.Client, error) {
	opts := &minio.Options{
		Creds:  NewCredentials(cfg),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return client, nil
}
