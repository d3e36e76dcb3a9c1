// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/config"
)

// StorageService uploads inspection photos and docket scans to S3. When no
// AWS credentials are configured it falls back to a local-development mode
// that only fabricates URLs.
type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	baseURL  string
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64
	AllowedTypes []string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		aws:     cfg.AWS,
		baseURL: fmt.Sprintf("http://%s:%s", cfg.Server.Host, cfg.Server.Port),
	}

	if cfg.AWS.AccessKeyID == "" {
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

func (s *StorageService) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, apperr.Validation(fmt.Sprintf("file size %d bytes exceeds maximum of %d bytes", header.Size, options.MaxSize), nil)
	}

	if len(options.AllowedTypes) > 0 {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if ext == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, apperr.Validation("file type "+ext+" is not allowed", nil)
		}
	}

	key := s.generateKey(header.Filename, options.Folder)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Persistence(fmt.Errorf("failed to read upload: %w", err))
	}

	contentType := header.Header.Get("Content-Type")
	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType)
	}
	return &UploadResult{
		URL:      fmt.Sprintf("%s/uploads/%s", s.baseURL, key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	})
	if err != nil {
		return nil, apperr.Persistence(fmt.Errorf("failed to upload to S3: %w", err))
	}

	return &UploadResult{
		URL:      s.objectURL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.Persistence(fmt.Errorf("failed to delete from S3: %w", err))
	}
	return nil
}

// GeneratePresignedURL returns a temporary download link for a private
// attachment.
func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", apperr.Validation("object storage is not configured", nil)
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiration)
	if err != nil {
		return "", apperr.Persistence(fmt.Errorf("failed to presign URL: %w", err))
	}
	return url, nil
}

// GetDefaultUploadOptions maps an attachment category to its size and type
// limits.
func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "inspection_photos":
		return UploadOptions{
			Folder:       "inspection-photos",
			MaxSize:      20 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".heic"},
		}
	case "dockets":
		return UploadOptions{
			Folder:       "dockets",
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
		}
	case "diary_photos":
		return UploadOptions{
			Folder:       "diary-photos",
			MaxSize:      20 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".heic"},
		}
	default:
		return UploadOptions{
			Folder:       "general",
			MaxSize:      5 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
		}
	}
}

func (s *StorageService) generateKey(originalName, folder string) string {
	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102"), uuid.New().String()[:8], ext)
	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func (s *StorageService) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
}
