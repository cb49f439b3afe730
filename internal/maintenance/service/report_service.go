package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ReportService stores completion reports and tech log attachments in
// object storage. It holds keys only; callers persist them on their records.
type ReportService struct {
	minioClient *minio.Client
	bucket      string
}

func NewReportService(minioClient *minio.Client, bucket string) *ReportService {
	return &ReportService{minioClient: minioClient, bucket: bucket}
}

// Upload stores one report and returns its object key.
func (s *ReportService) Upload(ctx context.Context, kind, fileName string, reader io.Reader, fileSize int64, contentType string) (string, error) {
	if s.minioClient == nil {
		return "", ErrStorageUnavailable
	}

	objectName := fmt.Sprintf("reports/%s/%s/%s%s",
		kind, time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := s.minioClient.PutObject(ctx, s.bucket, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return objectName, nil
}

// DownloadURL returns a presigned link for one stored report.
func (s *ReportService) DownloadURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.minioClient == nil {
		return "", ErrStorageUnavailable
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	reqParams := make(url.Values)
	presigned, err := s.minioClient.PresignedGetObject(ctx, s.bucket, objectName, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign report: %w", err)
	}
	return presigned.String(), nil
}
