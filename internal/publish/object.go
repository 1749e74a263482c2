package publish

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectConfig describes the object-store destinations for the aggregate.
type ObjectConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	Bucket          string
	SecondaryBucket string // separate consumer copy; empty disables it
	Prefix          string
}

// ObjectPublisher writes the aggregate CSV to the three object-store
// destinations: the primary latest copy, a dated backup, and the secondary
// consumer bucket. Each destination is fully overwritten per run.
type ObjectPublisher struct {
	client *minio.Client
	cfg    ObjectConfig
}

// NewObjectPublisher connects the object-store client and ensures the
// primary bucket exists.
func NewObjectPublisher(ctx context.Context, cfg ObjectConfig) (*ObjectPublisher, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: connect object store: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("publish: check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("publish: create bucket %q: %w", cfg.Bucket, err)
		}
	}
	return &ObjectPublisher{client: cli, cfg: cfg}, nil
}

// PublishAggregate writes the CSV payload to all destinations. All writes
// must succeed: a failed destination aborts the run so the next scheduled
// run retries the publish wholesale.
func (p *ObjectPublisher) PublishAggregate(ctx context.Context, runID string, runTime time.Time, payload []byte) error {
	keys := []struct {
		bucket string
		key    string
	}{
		{p.cfg.Bucket, p.cfg.Prefix + "latest.csv"},
		{p.cfg.Bucket, fmt.Sprintf("%shistory/%s/%s.csv", p.cfg.Prefix, runTime.UTC().Format("2006-01-02"), runID[:8])},
	}
	if p.cfg.SecondaryBucket != "" {
		keys = append(keys, struct {
			bucket string
			key    string
		}{p.cfg.SecondaryBucket, p.cfg.Prefix + "latest.csv"})
	}

	for _, dst := range keys {
		reader := bytes.NewReader(payload)
		if _, err := p.client.PutObject(ctx, dst.bucket, dst.key, reader, int64(reader.Len()),
			minio.PutObjectOptions{ContentType: "text/csv"}); err != nil {
			return fmt.Errorf("publish: put %s/%s: %w", dst.bucket, dst.key, err)
		}
		log.Debug().Str("bucket", dst.bucket).Str("key", dst.key).Msg("Aggregate copy written")
	}

	log.Info().Str("run", runID).Int("bytes", len(payload)).Msg("Aggregate published")
	return nil
}
