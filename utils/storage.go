// neoboard/utils/storage.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// LocalStorage implements StorageService on the local disk. The uploads
// root is flat except for the identity-document subdirectory, which is
// created on demand.
type LocalStorage struct {
	UploadDir string
}

func (ls *LocalStorage) SaveFile(relPath string, data []byte, contentType string) (string, error) {
	fullPath := filepath.Join(ls.UploadDir, relPath)
	if dir := filepath.Dir(fullPath); dir != ls.UploadDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("could not create upload directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", err
	}
	return "uploads/" + filepath.ToSlash(relPath), nil
}

func (ls *LocalStorage) DeleteFile(relPath string) error {
	relPath = strings.TrimPrefix(relPath, "uploads/")
	err := os.Remove(filepath.Join(ls.UploadDir, filepath.FromSlash(relPath)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// S3Storage implements StorageService on S3-compatible object storage.
// Object keys mirror the relative upload paths so database rows stay
// backend-agnostic.
type S3Storage struct {
	Client     *minio.Client
	BucketName string
}

func NewS3Storage(endpoint, accessKey, secretKey, bucket, region string, useSSL bool) (*S3Storage, error) {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	var creds *credentials.Credentials
	if accessKey == "" || secretKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	return &S3Storage{Client: minioClient, BucketName: bucket}, nil
}

func (s3 *S3Storage) SaveFile(relPath string, data []byte, contentType string) (string, error) {
	ctx := context.Background()
	reader := bytes.NewReader(data)
	_, err := s3.Client.PutObject(ctx, s3.BucketName, relPath, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return "uploads/" + relPath, nil
}

func (s3 *S3Storage) DeleteFile(relPath string) error {
	relPath = strings.TrimPrefix(relPath, "uploads/")
	ctx := context.Background()
	return s3.Client.RemoveObject(ctx, s3.BucketName, relPath, minio.RemoveObjectOptions{})
}
