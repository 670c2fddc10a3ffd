package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzurePageFetcher fetches page images from Azure Blob Storage. The
// reference format is "container/path?blob=name" or a full blob URL
// whose path names the container and query names the blob.
type AzurePageFetcher struct {
	client *azblob.Client
}

func NewAzurePageFetcher(accountName, accountKey string) (*AzurePageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzurePageFetcher{client: client}, nil
}

func (s *AzurePageFetcher) FetchPage(ctx context.Context, ref string) (image.Image, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid blob reference: %w", err)
	}

	container := parsed.Path
	if len(container) > 0 && container[0] == '/' {
		container = container[1:]
	}
	blobName := parsed.Query().Get("blob")
	if container == "" || blobName == "" {
		return nil, fmt.Errorf("blob reference must name a container and blob: %q", ref)
	}

	download, err := s.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := download.Body
	defer body.Close()

	img, _, err := image.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	return img, nil
}
