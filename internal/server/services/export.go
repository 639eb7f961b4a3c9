package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/whybudget/internal/server/config"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/dmitrijs2005/whybudget/internal/server/models"
	"github.com/dmitrijs2005/whybudget/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult locates an uploaded ledger export.
type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type exportDocument struct {
	UserID       string                `json:"userId"`
	ExportedAt   time.Time             `json:"exportedAt"`
	Transactions []*models.Transaction `json:"transactions"`
}

// ExportService uploads a caller's ledger to object storage and hands back a
// time-limited download link.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	clock       func() time.Time
}

func NewExportService(m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{
		repomanager: m,
		config:      cfg,
		clock:       time.Now,
	}
}

// ExportKey builds the object key of an export made by caller at t.
func ExportKey(caller string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%v.json", caller, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export writes every transaction owned by caller as one JSON document.
func (s *ExportService) Export(ctx context.Context, caller string) (*ExportResult, error) {
	if err := identity.RequireCaller(caller); err != nil {
		return nil, err
	}

	items, err := s.repomanager.Transactions(s.repomanager.DB()).ListByOwner(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := s.clock().UTC()
	body, err := json.Marshal(exportDocument{UserID: caller, ExportedAt: now, Transactions: items})
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(caller, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportLinkValidityDuration))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, Count: len(items)}, nil
}
