package gateway

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wander-list/api-go/config"
)

// StorageService puts cover images into the R2 bucket and hands back public
// URLs under the canonical covers/{user}/{draft} layout.
type StorageService struct {
	Client   *s3.Client
	R2Config *config.R2Config
}

func NewStorageService() *StorageService {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &StorageService{Client: r2Client, R2Config: r2Config}
}

var coverContentTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/webp": true,
}

const maxCoverBytes = 10 * 1024 * 1024 // 10MB

// UploadCoverImage streams the file into the bucket and returns its public URL.
func (s *StorageService) UploadCoverImage(ctx context.Context, userID, draftID, fileName, contentType string, size int64, body io.Reader) (string, error) {
	if !coverContentTypes[contentType] {
		return "", invalid("invalid cover image type")
	}
	if size > maxCoverBytes {
		return "", invalid("cover image exceeds size limit")
	}

	key := s.coverKey(userID, draftID, fileName)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", translate(err)
	}
	return fmt.Sprintf("%s/%s", s.R2Config.PublicURL, key), nil
}

// PresignCoverUpload returns a one-hour PUT URL for direct browser uploads.
func (s *StorageService) PresignCoverUpload(ctx context.Context, userID, draftID, fileName, contentType string) (uploadURL, fileURL, key string, err error) {
	if !coverContentTypes[contentType] {
		return "", "", "", invalid("invalid cover image type")
	}

	key = s.coverKey(userID, draftID, fileName)
	presigner := s3.NewPresignClient(s.Client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", "", "", translate(err)
	}
	return req.URL, fmt.Sprintf("%s/%s", s.R2Config.PublicURL, key), key, nil
}

// DeleteCover removes an uploaded cover, verifying the key belongs to the user.
func (s *StorageService) DeleteCover(ctx context.Context, userID, key string) error {
	expected := fmt.Sprintf("covers/%s/", userID)
	if len(key) < len(expected) || key[:len(expected)] != expected {
		return ErrNotFound
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.R2Config.BucketName),
		Key:    aws.String(key),
	})
	return translate(err)
}

func (s *StorageService) coverKey(userID, draftID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("covers/%s/%s_%d%s", userID, draftID, time.Now().Unix(), ext)
}
