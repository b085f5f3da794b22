package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/pkg/execution"
)

const uploadTimeout = 30 * time.Second

// S3Exporter snapshots usage summaries to object storage as JSON.
type S3Exporter struct {
	client     *s3.Client
	bucketName string
	logger     *slog.Logger
}

// NewS3Exporter creates an exporter targeting the given bucket.
func NewS3Exporter(cfg aws.Config, bucketName string, logger *slog.Logger) *S3Exporter {
	return &S3Exporter{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		logger:     logger,
	}
}

// Export writes the summary to reports/usage-<timestamp>.json and returns
// the object key.
func (e *S3Exporter) Export(ctx context.Context, summary *domain.UsageSummary) (string, error) {
	body, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshaling usage summary: %w", err)
	}

	key := fmt.Sprintf("reports/usage-%s.json", summary.GeneratedAt.UTC().Format("20060102T150405Z"))
	_, err = execution.WithTimeout(ctx, uploadTimeout,
		func(ctx context.Context) (*s3.PutObjectOutput, error) {
			return e.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(e.bucketName),
				Key:         aws.String(key),
				Body:        bytes.NewReader(body),
				ContentType: aws.String("application/json"),
			})
		})
	if err != nil {
		return "", fmt.Errorf("uploading report %s: %w", key, err)
	}

	e.logger.Info("exported usage report", "bucket", e.bucketName, "key", key)
	return key, nil
}
