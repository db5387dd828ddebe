package supabase

import (
	"bytes"
	"fmt"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient wraps the Supabase storage API for the artwork, mockups and
// proofs buckets. Uploads always upsert, so re-running a proof version
// replaces the object at the same path instead of accumulating copies.
type StorageClient struct {
	client *storage.Client
}

func NewStorageClient(sb *Client) *StorageClient {
	return &StorageClient{client: sb.Supabase.Storage}
}

func (s *StorageClient) Upload(bucket, objectPath string, data []byte, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

func (s *StorageClient) Download(bucket, objectPath string) ([]byte, error) {
	data, err := s.client.DownloadFile(bucket, objectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", bucket, objectPath, err)
	}
	return data, nil
}

func (s *StorageClient) SignedURL(bucket, objectPath string, expiresIn int) (string, error) {
	resp, err := s.client.CreateSignedUrl(bucket, objectPath, expiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s/%s: %w", bucket, objectPath, err)
	}
	return resp.SignedURL, nil
}
