package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/avcastro/vaultbox/internal/common"
)

// maxNameAttempts bounds the rename-retry loop. Exceeding it fails the
// upload with common.ErrNameConflict instead of looping forever on an
// adversarial name.
const maxNameAttempts = 100

// s3API is the subset of the S3 client used by the store.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store talks to an S3-compatible bucket.
type S3Store struct {
	client        s3API
	bucket        string
	publicBaseURL string
}

// Config carries the settings needed to reach the bucket.
type Config struct {
	AccessKey     string
	SecretKey     string
	Region        string
	BaseEndpoint  string
	Bucket        string
	PublicBaseURL string
}

// NewS3Store builds a store over a real S3 client.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload writes body under name using a conditional put so an existing
// object is never overwritten. On collision it derives "base (n).ext"
// candidates until one is free; any other store error aborts immediately.
// Two concurrent uploads of the same name may still race; the loop is
// best-effort, not a mutual-exclusion mechanism.
func (s *S3Store) Upload(ctx context.Context, name, contentType string, body []byte) (string, error) {
	candidate := name
	for attempt := 1; ; attempt++ {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(candidate),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
			IfNoneMatch: aws.String("*"),
		})
		if err == nil {
			return candidate, nil
		}
		if !isPreconditionFailed(err) {
			return "", fmt.Errorf("%w: uploading %q: %v", common.ErrExternal, candidate, err)
		}
		if attempt >= maxNameAttempts {
			return "", fmt.Errorf("%w: no free name for %q after %d attempts", common.ErrNameConflict, name, attempt)
		}
		candidate = nextCandidate(name, attempt)
	}
}

func (s *S3Store) Download(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: downloading %q: %v", common.ErrExternal, name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", common.ErrExternal, name, err)
	}
	return data, nil
}

func (s *S3Store) PublicURL(name string) string {
	return s.publicBaseURL + "/" + s.bucket + "/" + url.PathEscape(name)
}

func (s *S3Store) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	ids := make([]types.ObjectIdentifier, 0, len(names))
	for _, n := range names {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(n)})
	}
	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("%w: deleting objects: %v", common.ErrExternal, err)
	}
	return nil
}

// isPreconditionFailed reports whether err is the store rejecting a
// conditional put because the key already exists.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed"
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}
