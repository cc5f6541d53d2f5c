// Package upload stores site images in S3-compatible blob storage and hands
// back their public URLs.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foliospace/core/internal/config"
)

// Uploader stores a payload under a key and returns its public URL.
// Implemented by S3Uploader; tests substitute a spy.
type Uploader interface {
	Upload(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// S3Uploader uploads objects with the AWS SDK v2 client. It works against
// AWS proper and S3-compatible endpoints (path-style forced when a custom
// endpoint is set without an explicit style).
type S3Uploader struct {
	client       *s3.Client
	bucket       string
	region       string
	endpoint     string
	customDomain string
	prefix       string
	pathStyle    bool
}

// NewS3Uploader builds an uploader from the configured S3 options.
func NewS3Uploader(opts config.S3Options) (*S3Uploader, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSuffix(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	pathStyle := opts.PathStyleAccess
	if endpoint != "" && !opts.PathStyleAccess {
		pathStyle = true
	}

	clientOpts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		UsePathStyle: pathStyle,
	}
	if endpoint != "" {
		clientOpts.BaseEndpoint = aws.String(endpoint)
	}

	return &S3Uploader{
		client:       s3.New(clientOpts),
		bucket:       bucket,
		region:       region,
		endpoint:     endpoint,
		customDomain: strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/"),
		prefix:       strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
		pathStyle:    pathStyle,
	}, nil
}

// Upload puts one object and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	key = u.objectKey(key)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return u.publicURL(key), nil
}

func (u *S3Uploader) objectKey(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if u.prefix != "" {
		return u.prefix + "/" + key
	}
	return key
}

func (u *S3Uploader) publicURL(key string) string {
	if u.customDomain != "" {
		return u.customDomain + "/" + key
	}
	if u.endpoint != "" {
		if u.pathStyle {
			return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
		}
		host := strings.TrimPrefix(strings.TrimPrefix(u.endpoint, "https://"), "http://")
		return fmt.Sprintf("https://%s.%s/%s", u.bucket, host, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
