package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var (
	ErrUnsupportedFolder      = errors.New("unsupported upload folder")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Folders images may be uploaded into
var Folders = []string{"products", "reviews", "avatars", "categories"}

var imageContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Uploader hands out presigned upload URLs
type Uploader interface {
	PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error)
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// default chain: env, shared config, instance role
		loaded, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load AWS default config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// PresignImageUpload returns a PUT URL for a new object under folder and the
// public URL the object will have once uploaded.
func (s *S3Storage) PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	if !contains(Folders, folder) {
		return nil, ErrUnsupportedFolder
	}
	if !contains(imageContentTypes, contentType) {
		return nil, ErrUnsupportedContentType
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	presigned, err := s3.NewPresignClient(s.client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presigned.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
