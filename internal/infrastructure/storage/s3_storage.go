// Package storage provides document store implementations backed by object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/shared"
	infraconfig "github.com/ffe/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// filenameMetadataKey holds the uploaded file's original name on each object
const filenameMetadataKey = "filename"

// Ensure S3DocumentStore implements document.Store
var _ document.Store = (*S3DocumentStore)(nil)

// S3DocumentStore keeps governing documents and spend evidence in an
// S3-compatible bucket (AWS S3, MinIO, etc.)
type S3DocumentStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3DocumentStoreOption is a functional option for configuring S3DocumentStore
type S3DocumentStoreOption func(*S3DocumentStore)

// WithLogger sets a custom logger for S3DocumentStore
func WithLogger(logger *zap.Logger) S3DocumentStoreOption {
	return func(s *S3DocumentStore) {
		s.logger = logger
	}
}

// NewS3DocumentStore creates a new S3DocumentStore from configuration
func NewS3DocumentStore(cfg *infraconfig.StorageConfig, opts ...S3DocumentStoreOption) (*S3DocumentStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "eu-west-2"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	// An empty endpoint means AWS S3 itself
	var endpoint string
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	store := &S3DocumentStore{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3DocumentStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating document bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Put uploads a document. The original filename is kept as object metadata.
func (s *S3DocumentStore) Put(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (*document.Document, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}

	// Buffer the upload so the SDK can sign a seekable body
	data, err := io.ReadAll(io.LimitReader(body, document.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > document.MaxSize {
		return nil, document.ErrTooLarge
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{filenameMetadataKey: filename},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Document stored", zap.String("key", key), zap.Int("size", len(data)))

	return &document.Document{
		Key:          key,
		Filename:     filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		LastModified: time.Now().UTC(),
	}, nil
}

// Get downloads a document's content
func (s *S3DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// List returns every document stored under prefix
func (s *S3DocumentStore) List(ctx context.Context, prefix string) ([]document.Document, error) {
	var docs []document.Document

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			doc := document.Document{
				Key:      aws.ToString(obj.Key),
				Filename: path.Base(aws.ToString(obj.Key)),
				Size:     aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				doc.LastModified = *obj.LastModified
			}
			s.describe(ctx, &doc)
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// describe fills in the original filename and content type from object metadata.
// Listing still succeeds when the metadata cannot be read.
func (s *S3DocumentStore) describe(ctx context.Context, doc *document.Document) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(doc.Key),
	})
	if err != nil {
		s.logger.Warn("Failed to read document metadata", zap.String("key", doc.Key), zap.Error(err))
		return
	}
	if name := head.Metadata[filenameMetadataKey]; name != "" {
		doc.Filename = name
	}
	doc.ContentType = aws.ToString(head.ContentType)
}

// Delete removes a document. Deleting a missing key is not an error.
func (s *S3DocumentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// Bucket returns the bucket name
func (s *S3DocumentStore) Bucket() string {
	return s.bucket
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
