package publish

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
)

// DefaultUploadTimeout bounds a single upload when the config sets none
const DefaultUploadTimeout = 30 * time.Second

// ObjectPutter is the part of the S3 client the publisher uses
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads finished renders to an S3 bucket
type S3Publisher struct {
	client  ObjectPutter
	config  config.S3Config
	logger  core.Logger
	timeout time.Duration
}

// NewS3Publisher creates a publisher with an S3 session built from cfg
func NewS3Publisher(cfg config.S3Config, logger core.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("S3 publishing needs a bucket")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), cfg, logger), nil
}

// NewS3PublisherWithClient creates a publisher around an existing client
func NewS3PublisherWithClient(client ObjectPutter, cfg config.S3Config, logger core.Logger) *S3Publisher {
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &S3Publisher{
		client:  client,
		config:  cfg,
		logger:  logger,
		timeout: timeout,
	}
}

// Key returns the object key for name, including the configured prefix
func (p *S3Publisher) Key(name string) string {
	if p.config.Prefix == "" {
		return name
	}
	return path.Join(p.config.Prefix, name)
}

// URL returns the public URL of key, or an s3:// URL without a CDN
func (p *S3Publisher) URL(key string) string {
	if p.config.CDNURL != "" {
		return strings.TrimSuffix(p.config.CDNURL, "/") + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", p.config.Bucket, key)
}

// Publish uploads data under name and returns its URL
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if p.logger != nil {
		p.logger.Printf("Uploaded %s to S3 (%d bytes)\n", key, size)
	}
	return p.URL(key), nil
}

// PublishImage encodes img in the format of name's extension and uploads it
func (p *S3Publisher) PublishImage(ctx context.Context, name string, img image.Image) (string, error) {
	ext := path.Ext(name)
	if ext == "" {
		ext = ".png"
		name += ext
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, ext); err != nil {
		return "", err
	}
	return p.Publish(ctx, name, buf.Bytes(), output.ContentType(ext))
}
