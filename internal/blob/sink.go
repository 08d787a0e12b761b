// Package blob writes exported pedigree files to a local directory or an
// S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
)

// Sink drivers.
const (
	DriverFS   = "fs"
	DriverS3   = "s3"
	DriverNone = "none"
)

// Sink stores one named object. Put replaces an existing object with the
// same key.
type Sink interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Discard accepts every object and stores nothing.
type Discard struct{}

// Put drains r.
func (Discard) Put(_ context.Context, _ string, r io.Reader, _ string) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// Open builds the sink selected by cfg.Sink. Remote sinks are wrapped in a
// GuardedSink.
func Open(ctx context.Context, cfg domain.OutputConfig, logger *logrus.Logger) (Sink, error) {
	switch cfg.Sink {
	case "", DriverFS:
		return NewFSSink(cfg.Dir)
	case DriverS3:
		s3Sink, err := NewS3Sink(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"bucket": cfg.S3.Bucket,
			"prefix": cfg.S3.Prefix,
		}).Info("S3 output sink configured")
		return NewGuardedSink("s3", s3Sink, cfg.S3.BreakerTimeout, logger), nil
	case DriverNone:
		return Discard{}, nil
	default:
		return nil, domain.NewValidationError("output.sink", fmt.Sprintf("unknown sink %q", cfg.Sink), cfg.Sink)
	}
}

// sanitizeKey rejects keys that are empty, absolute or escape the sink root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}
