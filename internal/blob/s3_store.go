package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/codenest/codenest/internal/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog/log"
)

// Payloads at or above this size go through the multipart uploader.
const multipartThreshold = 5 * 1024 * 1024

// S3Store adapts an S3-compatible bucket (B2 in production) to the BlobStore
// interface. All calls are request scoped; timeouts come from the caller's
// context.
type S3Store struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

type S3StoreDependencies struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func NewS3Store(deps S3StoreDependencies) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(deps.Endpoint),
		Region:           aws.String(deps.Region),
		Credentials:      credentials.NewStaticCredentials(deps.AccessKeyID, deps.SecretAccessKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store session: %w", err)
	}

	client := s3.New(sess)

	return &S3Store{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		bucket:   deps.Bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, content []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if len(content) >= multipartThreshold {
		_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(content),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return fmt.Errorf("%w: upload %s: %v", domain.ErrBlobWriteFailed, key, err)
		}

		return nil
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", domain.ErrBlobWriteFailed, key, err)
	}

	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
		}

		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	return content, nil
}

// Delete is idempotent: a missing key is success, not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}

		return fmt.Errorf("%w: delete %s: %v", domain.ErrBlobDeleteFailed, key, err)
	}

	return nil
}

func (s *S3Store) Copy(ctx context.Context, sourceKey, destinationKey string) error {
	_, err := s.client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + sourceKey),
		Key:        aws.String(destinationKey),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: blob %s", domain.ErrNotFound, sourceKey)
		}

		return fmt.Errorf("%w: copy %s to %s: %v", domain.ErrBlobWriteFailed, sourceKey, destinationKey, err)
	}

	return nil
}

func (s *S3Store) ListByPrefix(ctx context.Context, prefix string) ([]domain.BlobObject, error) {
	var objects []domain.BlobObject

	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			objects = append(objects, domain.BlobObject{
				Key:          aws.StringValue(object.Key),
				Size:         aws.Int64Value(object.Size),
				LastModified: aws.TimeValue(object.LastModified),
			})
		}

		return true
	})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to list blobs by prefix")

		return nil, fmt.Errorf("failed to list blobs under %s: %w", prefix, err)
	}

	return objects, nil
}

func isNotFound(err error) bool {
	if awsErr, ok := err.(awserr.Error); ok {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}

	return false
}
