package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	archiveBatchSize     = 1000
	maxConcurrentUploads = 4
)

// HistoryArchive exports craft history to a Spaces bucket as NDJSON
// batches, one object per batch, keyed by export time.
type HistoryArchive struct {
	client  *s3.Client
	bucket  string
	region  string
	prefix  string
	history repositories.HistoryRepository
	sem     *semaphore.Weighted
}

func NewHistoryArchive(key, secret, region, bucket, prefix string, history repositories.HistoryRepository) *HistoryArchive {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &HistoryArchive{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		prefix:  strings.Trim(prefix, "/"),
		history: history,
		sem:     semaphore.NewWeighted(maxConcurrentUploads),
	}
}

// Export uploads every history row created since the given time. Batches
// upload concurrently, bounded by the semaphore; a failed batch fails the
// whole export after in-flight uploads drain.
func (a *HistoryArchive) Export(ctx context.Context, since time.Time) (int, error) {
	records, err := a.history.GetSince(ctx, since, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	exportedAt := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	uploaded := 0

	for start := 0; start < len(records); start += archiveBatchSize {
		end := min(start+archiveBatchSize, len(records))
		batch := records[start:end]
		key := a.objectKey(exportedAt, start/archiveBatchSize)

		if err := a.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer a.sem.Release(1)
			if err := a.uploadBatch(gctx, batch, key); err != nil {
				slog.Error("History batch upload failed",
					slog.String("type", "sys"),
					slog.String("key", key),
					slog.Any("error", err))
				return err
			}
			return nil
		})
		uploaded += len(batch)
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	slog.Info("History export complete",
		slog.String("type", "sys"),
		slog.Int("records", uploaded),
		slog.String("bucket", a.bucket))
	return uploaded, nil
}

func (a *HistoryArchive) uploadBatch(ctx context.Context, batch []*models.CraftHistory, key string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, record := range batch {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", record.ID, err)
		}
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	return err
}

func (a *HistoryArchive) objectKey(exportedAt time.Time, batch int) string {
	key := fmt.Sprintf("craft-history/%s/batch-%04d.ndjson", exportedAt.Format("2006-01-02T15-04-05"), batch)
	if a.prefix != "" {
		return a.prefix + "/" + key
	}
	return key
}
