package factory

import (
	"fmt"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/artifacts"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/config"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/storage"
)

// StorageType selects a page-image backend.
type StorageType string

const (
	// HTTPStorage fetches pages over HTTP(S)
	HTTPStorage StorageType = "http"
	// AzureStorage fetches pages from Azure Blob Storage
	AzureStorage StorageType = "azure"
	// LocalStorage reads pages from the local filesystem
	LocalStorage StorageType = "local"
)

// StorageFactory creates page fetchers per backend.
type StorageFactory interface {
	CreateFetcher(storageType StorageType) (storage.PageFetcher, error)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory bound to the loaded
// configuration.
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

func (f *storageFactory) CreateFetcher(storageType StorageType) (storage.PageFetcher, error) {
	switch storageType {
	case HTTPStorage, "":
		return storage.NewHTTPPageFetcher(f.cfg.PageFetchTimeout), nil
	case AzureStorage:
		if f.cfg.AzureAccountName == "" || f.cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage requested but AZURE_STORAGE_ACCOUNT/KEY not configured")
		}
		return storage.NewAzurePageFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalPageFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// CreateSink builds the artifact sink: a directory-backed sink when an
// artifact dir is configured, otherwise the no-op sink.
func CreateSink(artifactDir string) (artifacts.Sink, error) {
	if artifactDir == "" {
		return artifacts.NopSink{}, nil
	}
	return artifacts.NewDirSink(artifactDir)
}
