// Package uploads provides presigned S3 PUT URLs for component and damage
// photos. Clients upload directly to object storage and submit only the
// resulting public URL in the entity's images attribute.
package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/velodesk/repair-service/internal/config"
)

// Presigner defines the interface for presigning S3 requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignedUpload describes one authorized upload slot.
type PresignedUpload struct {
	UploadURL        string `json:"uploadUrl"`
	PublicURL        string `json:"publicUrl"`
	Key              string `json:"key"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// Service issues presigned uploads against a single bucket.
type Service struct {
	presigner     Presigner
	bucket        string
	region        string
	publicBaseURL string
	ttl           time.Duration
}

// New builds a Service from the uploads configuration using the default AWS
// credential chain.
func New(ctx context.Context, cfg config.UploadsConfig) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return NewWithPresigner(s3.NewPresignClient(client), cfg), nil
}

// NewWithPresigner builds a Service around an existing presigner.
func NewWithPresigner(presigner Presigner, cfg config.UploadsConfig) *Service {
	return &Service{
		presigner:     presigner,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		ttl:           cfg.PresignTTL(),
	}
}

// PresignPut authorizes a single object upload under a fresh key derived
// from the original file name's extension.
func (s *Service) PresignPut(ctx context.Context, fileName, contentType string) (PresignedUpload, error) {
	key := buildKey(fileName)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	req, err := s.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = s.ttl })
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign put: %w", err)
	}
	return PresignedUpload{
		UploadURL:        req.URL,
		PublicURL:        s.publicURL(key),
		Key:              key,
		ExpiresInSeconds: int(s.ttl.Seconds()),
	}, nil
}

func (s *Service) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// buildKey keeps only the extension of the client-supplied name; object
// identity comes from a fresh UUID.
func buildKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return "uploads/" + uuid.NewString() + ext
}
