package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"

	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	PublicBase string
}

type Client struct {
	cfg S3Config
	s3  *s3.Client
}

func NewClient(ctx context.Context, cfg S3Config) (*Client, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if parsed, err := url.Parse(endpoint); err == nil {
				endpoint = parsed.String()
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{cfg: cfg, s3: s3Client}, nil
}

// Upload stores body under key and returns the public URL of the object.
func (c *Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if c == nil {
		return "", fmt.Errorf("s3 client not initialized: %w", echoo_errors.ErrBlobUnavailable)
	}
	if key == "" {
		return "", fmt.Errorf("object key is required: %w", echoo_errors.ErrInvalidInput)
	}
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w: %v", key, echoo_errors.ErrBlobUnavailable, err)
	}
	return c.FileURL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil {
		return fmt.Errorf("s3 client not initialized: %w", echoo_errors.ErrBlobUnavailable)
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w: %v", key, echoo_errors.ErrBlobUnavailable, err)
	}
	return nil
}

// FileURL returns the public URL for key, or the key itself when no public
// base is configured.
func (c *Client) FileURL(key string) string {
	if c == nil || key == "" {
		return ""
	}
	if c.cfg.PublicBase != "" {
		return c.cfg.PublicBase + "/" + key
	}
	return key
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds "<app>/<folder>/<uuid>_<filename>".
func ObjectKey(app, folder, filename string) string {
	name := unsafeKeyChars.ReplaceAllString(path.Base(filename), "_")
	return path.Join(app, folder, uuid.NewString()+"_"+name)
}
