package container

import (
	"fmt"
	"net/http"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/config"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/factory"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/logger"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/observer"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/service"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config   *config.Config
	analyzer forensics.Analyzer
	service  service.DocumentAnalysisService
	handler  http.Handler
}

// NewContainer builds the dependency graph. The assessor client is
// constructed here exactly once and handed down by interface; nothing
// below the service layer holds external-service handles.
func NewContainer(cfg *config.Config) (*Container, error) {
	sink, err := factory.CreateSink(cfg.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact sink: %w", err)
	}

	analyzer := forensics.NewAnalyzer(sink, cfg.MaxWorkers)

	var assessorClient assessor.Client
	if cfg.AssessorConfigured() {
		assessorClient = assessor.NewClient(
			cfg.AssessorEndpoint, cfg.AssessorDeployment,
			cfg.AssessorAPIVersion, cfg.AssessorAPIKey,
			cfg.AssessorTimeout,
		)
	} else {
		logger.Warn("visual assessor not configured; all pages will fuse in degraded mode")
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	storageFactory := factory.NewStorageFactory(cfg)
	docService := service.NewDocumentAnalysisService(storageFactory, analyzer, assessorClient, events, cfg)
	handler := transport.NewHandler(docService, cfg)

	return &Container{
		config:   cfg,
		analyzer: analyzer,
		service:  docService,
		handler:  handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases analyzer resources.
func (c *Container) Close() error {
	return c.analyzer.Close()
}
