// Package blob stores uploaded audio in S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS itself
	AccessKey string
	SecretKey string
	PublicURL string // base for returned object URLs; defaults to endpoint/bucket
}

type S3Uploader struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3Uploader(cfg Config) (*S3Uploader, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		publicURL = strings.TrimSuffix(endpoint, "/") + "/" + cfg.Bucket
	}
	return newS3Uploader(s3.New(sess), cfg.Bucket, publicURL), nil
}

func newS3Uploader(client s3iface.S3API, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// PutAudio uploads a clip under recordings/<user>/<uuid><ext> and returns its URL.
func (u *S3Uploader) PutAudio(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}
	key := fmt.Sprintf("recordings/%s/%s%s", userID, uuid.New(), strings.ToLower(ext))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.publicURL + "/" + key, nil
}
