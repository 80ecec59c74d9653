package filestore

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores objects in a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client     *minio.Client
	bucketName string
}

func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, Error.Wrap(err)
		}
	}

	return &MinioStore{client: client, bucketName: bucketName}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", Error.Wrap(err)
	}
	return key, nil
}

func (s *MinioStore) Get(ctx context.Context, path string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, Error.Wrap(err)
	}
	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, path, minio.RemoveObjectOptions{}); err != nil {
		return Error.Wrap(err)
	}
	return nil
}
