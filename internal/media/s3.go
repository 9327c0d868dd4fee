package media

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Uploader implements Uploader on AWS S3.
type s3Uploader struct {
	client  s3PutAPI
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
// Objects are addressed through publicBaseURL when set, otherwise through the
// bucket's virtual-hosted endpoint.
func NewS3Uploader(ctx context.Context, bucket, region, prefix, publicBaseURL string, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 uploader initialised")

	return newS3Uploader(s3.NewFromConfig(cfg), bucket, prefix, publicBaseURL, logger), nil
}

func newS3Uploader(client s3PutAPI, bucket, prefix, baseURL string, logger zerolog.Logger) *s3Uploader {
	return &s3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Upload stores the file under a generated key.
func (u *s3Uploader) Upload(ctx context.Context, folder string, file File) (*UploadResult, error) {
	if file.Size == 0 || file.Body == nil {
		return nil, ErrEmptyFile
	}

	key := objectKey(u.prefix, folder, file.Name)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.ContentType),
	})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return nil, fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	u.logger.Info().
		Str("key", key).
		Int64("size", file.Size).
		Msg("object uploaded to S3")

	return &UploadResult{
		URL:          publicURL(u.baseURL, key),
		Identifier:   key,
		ResourceType: ResourceType(file.ContentType),
	}, nil
}
