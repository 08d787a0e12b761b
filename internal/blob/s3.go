package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/brca-pedigree-sim/internal/domain"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// S3Sink uploads objects to a single bucket, optionally below a key prefix.
// Credentials come from the default AWS chain.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
	cfg    domain.S3Config
}

// NewS3Sink creates an S3 sink. A custom endpoint enables S3-compatible
// stores such as MinIO.
func NewS3Sink(ctx context.Context, cfg domain.S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, domain.NewValidationError("output.s3.bucket", "bucket required for s3 sink", cfg.Bucket)
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return &S3Sink{
		client: s3.NewFromConfig(awsCfg, opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		cfg:    cfg,
	}, nil
}

// ObjectKey returns the bucket key used for key.
func (s *S3Sink) ObjectKey(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return k, nil
	}
	return path.Join(s.prefix, k), nil
}

// Put uploads r. The body is buffered when it cannot seek, since request
// signing needs to read the payload twice.
func (s *S3Sink) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	objectKey, err := s.ObjectKey(key)
	if err != nil {
		return err
	}
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		body = bytes.NewReader(data)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("uploading %s to bucket %s: %w", objectKey, s.bucket, err)
	}
	return nil
}
