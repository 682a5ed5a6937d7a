package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DocumentStorage handles document file uploads to S3. The stored object key
// becomes the document_url recorded in the registry.
type DocumentStorage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

func NewDocumentStorage(client *s3.Client, bucketName string) *DocumentStorage {
	return &DocumentStorage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
	}
}

// UploadFile stores a document file and returns its storage key.
func (s *DocumentStorage) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document file: %w", err)
	}

	return key, nil
}

// PresignGet returns a time-limited URL for reading a stored document file.
func (s *DocumentStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign document url: %w", err)
	}

	return req.URL, nil
}

// DeleteFile removes a stored document file.
func (s *DocumentStorage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document file: %w", err)
	}

	return nil
}

// ObjectURL is the canonical storage URL recorded on the document record.
func (s *DocumentStorage) ObjectURL(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucketName, key)
}

// ObjectKey extracts the storage key from a canonical URL for this bucket.
// Returns false for empty URLs or URLs pointing elsewhere.
func (s *DocumentStorage) ObjectKey(objectURL string) (string, bool) {
	prefix := fmt.Sprintf("s3://%s/", s.bucketName)
	if !strings.HasPrefix(objectURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(objectURL, prefix)
	return key, key != ""
}
