//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package publish uploads build outputs to object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
)

// Config selects the bucket and credentials. Publishing is disabled when
// Bucket is empty. Without static keys the default AWS credential chain is used.
type Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// PutObjectAPI is the part of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads files under <prefix>/<run id>/.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	runID  string

	// NewBackOff returns the retry policy for one upload.
	NewBackOff func() backoff.BackOff
}

// New creates a publisher around an existing client.
func New(client PutObjectAPI, cfg Config, runID string) *S3Publisher {
	return &S3Publisher{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		runID:      runID,
		NewBackOff: defaultBackOff,
	}
}

// NewS3Publisher loads AWS configuration and creates an S3 client.
func NewS3Publisher(ctx context.Context, cfg Config, runID string) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket is not configured")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, cfg, runID), nil
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	return bo
}

// Key returns the object key for a local file.
func (p *S3Publisher) Key(file string) string {
	return path.Join(p.prefix, p.runID, filepath.Base(file))
}

// Publish uploads every file, retrying each with exponential backoff.
// It returns the object keys written.
func (p *S3Publisher) Publish(ctx context.Context, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := p.Key(file)
		attempts := 0
		op := func() error {
			attempts++
			return p.upload(ctx, file, key)
		}
		if err := backoff.Retry(op, backoff.WithContext(p.NewBackOff(), ctx)); err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", file, err)
		}

		logging.Info().
			Str("bucket", p.bucket).
			Str("key", key).
			Int("attempts", attempts).
			Msg("Published file")
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *S3Publisher) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return backoff.Permanent(err)
	}
	defer f.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Upload failed")
	}
	return err
}
