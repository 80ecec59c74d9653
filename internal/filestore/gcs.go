package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client     *storage.Client
	bucketName string
}

func NewGCSStore(ctx context.Context, bucketName string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &GCSStore{client: client, bucketName: bucketName}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return "", Error.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return "", Error.Wrap(err)
	}
	return key, nil
}

func (s *GCSStore) Get(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucketName).Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, Error.Wrap(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return data, nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucketName).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return Error.Wrap(err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
