package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const MaxUploadSize = 10 * 1024 * 1024 // 10 MiB

var allowedImageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "webp": true,
}

var (
	// ErrInvalidUpload marks client-side validation failures (400);
	// everything else is a backend failure (500).
	ErrInvalidUpload  = errors.New("invalid upload")
	ErrObjectNotFound = errors.New("object not found")
)

// ObjectUploader is what feature services depend on, so tests can swap
// in a stub without an object-storage backend.
type ObjectUploader interface {
	Upload(fileHeader *multipart.FileHeader, folder string) (string, error)
}

// ObjectInfo describes one stored object in listings.
type ObjectInfo struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// StorageClient wraps NCP Object Storage through its S3-compatible API.
type StorageClient struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewStorageClient(cfg Config) (*StorageClient, error) {
	if cfg.NCPAccessKey == "" || cfg.NCPSecretKey == "" || cfg.NCPBucketName == "" {
		return nil, errors.New("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.NCPRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.NCPAccessKey, cfg.NCPSecretKey, "",
		)),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: cfg.NCPEndpoint}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	return &StorageClient{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   cfg.NCPBucketName,
		endpoint: cfg.NCPEndpoint,
	}, nil
}

func allowedFile(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", false
	}
	ext := strings.ToLower(filename[idx+1:])
	return ext, allowedImageExtensions[ext]
}

// Upload validates the file and stores it under a collision-free key so
// the original filename never leaks into the bucket.
func (sc *StorageClient) Upload(fileHeader *multipart.FileHeader, folder string) (string, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return "", fmt.Errorf("%w: no file selected", ErrInvalidUpload)
	}

	ext, ok := allowedFile(fileHeader.Filename)
	if !ok {
		return "", fmt.Errorf("%w: file type not allowed (png, jpg, jpeg, gif, bmp, webp)", ErrInvalidUpload)
	}

	if fileHeader.Size > MaxUploadSize {
		return "", fmt.Errorf("%w: file too large, max %dMB", ErrInvalidUpload, MaxUploadSize/(1024*1024))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s.%s", folder, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)

	_, err = sc.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(sc.bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return sc.ObjectURL(key), nil
}

func (sc *StorageClient) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", sc.endpoint, sc.bucket, key)
}

// List returns up to limit objects under folder/.
func (sc *StorageClient) List(folder string, limit int32) ([]ObjectInfo, error) {
	out, err := sc.client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket:  aws.String(sc.bucket),
		Prefix:  aws.String(folder + "/"),
		MaxKeys: aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	files := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := ObjectInfo{URL: sc.ObjectURL(aws.ToString(obj.Key)), Key: aws.ToString(obj.Key)}
		if obj.Size != nil {
			info.Size = *obj.Size
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		files = append(files, info)
	}
	return files, nil
}

// Delete checks existence first so a missing key is reported as
// ErrObjectNotFound rather than a silent no-op.
func (sc *StorageClient) Delete(key string) error {
	_, err := sc.client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(sc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ErrObjectNotFound
	}

	_, err = sc.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(sc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
