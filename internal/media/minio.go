package media

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// minioUploader implements Uploader on a MinIO (or any S3 compatible) server.
type minioUploader struct {
	client  *minio.Client
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

// MinioOptions configures NewMinioUploader.
type MinioOptions struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

// NewMinioUploader connects to MinIO and creates the bucket when missing.
func NewMinioUploader(ctx context.Context, opts MinioOptions, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "minio-uploader").Logger()

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check minio bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create minio bucket %s: %w", opts.Bucket, err)
		}
		logger.Info().Str("bucket", opts.Bucket).Msg("minio bucket created")
	}

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	logger.Info().
		Str("endpoint", opts.Endpoint).
		Str("bucket", opts.Bucket).
		Msg("minio uploader initialised")

	return &minioUploader{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  opts.Prefix,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// Upload stores the file under a generated key.
func (u *minioUploader) Upload(ctx context.Context, folder string, file File) (*UploadResult, error) {
	if file.Size == 0 || file.Body == nil {
		return nil, ErrEmptyFile
	}

	key := objectKey(u.prefix, folder, file.Name)

	info, err := u.client.PutObject(ctx, u.bucket, key, file.Body, file.Size,
		minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to put object to minio")
		return nil, fmt.Errorf("failed to put object to minio (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	u.logger.Info().
		Str("key", key).
		Int64("size", info.Size).
		Msg("object uploaded to minio")

	return &UploadResult{
		URL:          publicURL(u.baseURL, key),
		Identifier:   key,
		ResourceType: ResourceType(file.ContentType),
	}, nil
}
