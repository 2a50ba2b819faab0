// Package storage handles evidence photo uploads to S3.
package storage

import (
	"context"
	"fmt"
	"io"

	"ladangwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type EvidenceStorage struct {
	client    *s3.Client
	bucket    string
	awsRegion string
}

func NewEvidenceStorage(client *s3.Client, bucket, awsRegion string) *EvidenceStorage {
	return &EvidenceStorage{
		client:    client,
		bucket:    bucket,
		awsRegion: awsRegion,
	}
}

// Upload stores one photo blob under the given key and returns its stable
// public URL. Keys are unique per submission-timestamp-and-index, so
// retries of a failed submission never collide with earlier blobs.
func (s *EvidenceStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", types.NewTransportError(err, "failed to upload evidence %s", key)
	}

	return s.PublicURL(key), nil
}

// PublicURL returns the publicly resolvable URL for a stored key.
func (s *EvidenceStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.awsRegion, key)
}
