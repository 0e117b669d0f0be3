package mediax

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ridermall/riderbot/logx"
)

// S3Config configures the document archive bucket
type S3Config struct {
	Bucket string
	Prefix string
	Region string
}

// S3Archive decorates a Resolver: every successfully fetched document
// is written to S3, keyed by media id, and later fetches of the same id
// are served from the bucket. This keeps attachments readable past the
// provider's media retention window. Archive failures are logged and do
// not fail the fetch.
type S3Archive struct {
	inner  Resolver
	client *s3.Client
	config S3Config
}

// NewS3Archive builds the decorator with a client from the default AWS
// credential chain
func NewS3Archive(ctx context.Context, inner Resolver, config S3Config) (*S3Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Archive{
		inner:  inner,
		client: s3.NewFromConfig(awsCfg),
		config: config,
	}, nil
}

// Fetch serves the media from the bucket when present, otherwise
// resolves it through the inner resolver and archives a copy
func (a *S3Archive) Fetch(ctx context.Context, mediaID string) (Media, error) {
	key := a.config.Prefix + mediaID

	if cached, ok := a.fromBucket(ctx, key, mediaID); ok {
		return cached, nil
	}

	media, err := a.inner.Fetch(ctx, mediaID)
	if err != nil {
		return Media{}, err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(media.Data),
		ContentType: aws.String(media.MimeType),
	})
	if err != nil {
		logx.Warn("mediax: archiving %s to s3://%s/%s failed: %v", mediaID, a.config.Bucket, key, err)
	}

	return media, nil
}

func (a *S3Archive) fromBucket(ctx context.Context, key, mediaID string) (Media, bool) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Media{}, false
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		logx.Warn("mediax: reading cached %s failed: %v", key, err)
		return Media{}, false
	}

	media := Media{MediaID: mediaID, Data: data}
	if out.ContentType != nil {
		media.MimeType = *out.ContentType
	}
	return media, true
}
