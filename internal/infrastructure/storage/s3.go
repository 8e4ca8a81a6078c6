// Package storage keeps uploaded documents in S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"csei-backend/internal/domain/document"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ document.Store = (*S3Store)(nil)

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint (MinIO, localstack).
	Endpoint     string
	UsePathStyle bool
}

type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3Store(awsCfg, cfg), nil
}

func newS3Store(awsCfg aws.Config, cfg S3Config) *S3Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

// Store uploads f under key. The returned reference is the object key.
func (s *S3Store) Store(ctx context.Context, key string, f document.File) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty key", document.ErrInvalidReference)
	}
	// a seekable body lets the SDK sign the payload over plain HTTP too
	body, err := io.ReadAll(f.Body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(f.ContentType),
	}
	if f.UploadedBy != "" || f.Name != "" {
		in.Metadata = map[string]string{}
		if f.UploadedBy != "" {
			in.Metadata["uploaded-by"] = f.UploadedBy
		}
		if f.Name != "" {
			in.Metadata["original-name"] = url.PathEscape(f.Name)
		}
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// TemporaryLink presigns a GET for ref. ref may be a bare key or a full
// object URL stored by an earlier version of the service.
func (s *S3Store) TemporaryLink(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	key, err := s.keyOf(ref)
	if err != nil {
		return "", err
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) keyOf(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		key := strings.TrimPrefix(ref, "/")
		if key == "" {
			return "", document.ErrInvalidReference
		}
		return key, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", document.ErrInvalidReference, err)
	}
	p := strings.TrimPrefix(u.Path, "/")
	if !strings.HasPrefix(u.Host, s.bucket+".") {
		// path-style: /bucket/key
		var ok bool
		p, ok = strings.CutPrefix(p, s.bucket+"/")
		if !ok {
			return "", fmt.Errorf("%w: %s is not in bucket %s", document.ErrInvalidReference, ref, s.bucket)
		}
	}
	if p == "" {
		return "", document.ErrInvalidReference
	}
	return p, nil
}
