package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/aggregate"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/config"
	apperrors "github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/factory"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/fusion"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/logger"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/observer"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/repository"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/strategy"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/pkg/models"
)

// DocumentAnalysisService runs the full per-document pipeline: fetch
// each page raster, compute forensics, consult the visual assessor,
// fuse per page, and aggregate into the document summary.
type DocumentAnalysisService interface {
	AnalyzeDocument(ctx context.Context, req models.DocumentAnalysisRequest) (*models.DocumentAnalysisResponse, error)
}

type documentAnalysisService struct {
	storageFactory factory.StorageFactory
	analyzer       forensics.Analyzer
	// assessorClient may be nil: every page then runs the degraded
	// fusion path instead of pretending to be clean.
	assessorClient assessor.Client
	events         observer.Subject
	cfg            *config.Config
}

// NewDocumentAnalysisService wires the pipeline. Only this layer holds
// the assessor client; the analyzer and fusion stay free of external
// service handles.
func NewDocumentAnalysisService(
	storageFactory factory.StorageFactory,
	analyzer forensics.Analyzer,
	assessorClient assessor.Client,
	events observer.Subject,
	cfg *config.Config,
) DocumentAnalysisService {
	return &documentAnalysisService{
		storageFactory: storageFactory,
		analyzer:       analyzer,
		assessorClient: assessorClient,
		events:         events,
		cfg:            cfg,
	}
}

// AnalyzeDocument processes all pages concurrently and joins at the
// aggregation barrier. Pages are independent; a failed page degrades
// only itself.
func (s *documentAnalysisService) AnalyzeDocument(ctx context.Context, req models.DocumentAnalysisRequest) (*models.DocumentAnalysisResponse, error) {
	start := time.Now()

	if len(req.Pages) == 0 {
		return nil, apperrors.NewValidationError("document has no pages", nil)
	}

	fetcher, err := s.storageFactory.CreateFetcher(factory.StorageType(req.Storage))
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported page storage", err)
	}
	repo := repository.NewPageRepository(fetcher, s.cfg.WorkingWidth)

	for _, ref := range req.Pages {
		if err := repo.ValidatePageRef(ref); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid page reference %q", ref), err)
		}
	}

	pages := make([]models.PageVerdict, len(req.Pages))
	group, groupCtx := errgroup.WithContext(ctx)
	if s.cfg.MaxWorkers > 0 {
		group.SetLimit(s.cfg.MaxWorkers)
	}

	for i, ref := range req.Pages {
		i, ref := i, ref
		group.Go(func() error {
			pages[i] = s.analyzePage(groupCtx, repo, ref, i+1)
			return nil
		})
	}
	// page workers only report through their slot, never an error
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("document analysis cancelled", err)
	}

	analyzed := 0
	integrated := make([]fusion.Integrated, len(pages))
	for i, page := range pages {
		integrated[i] = page.Integrated
		if page.Metrics != nil {
			analyzed++
		}
	}
	if analyzed == 0 {
		return nil, apperrors.NewAggregationError("no page could be analyzed", nil)
	}

	summary, err := aggregate.Aggregate(integrated)
	if err != nil {
		return nil, err
	}

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.DocumentCompleted,
		Timestamp:      time.Now(),
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"pages":        len(pages),
			"status":       summary.StatusText,
			"highest_risk": summary.HighestRisk,
		},
	})

	return &models.DocumentAnalysisResponse{
		DocumentName:      req.DocumentName,
		Timestamp:         time.Now(),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Summary:           summary,
		Pages:             pages,
	}, nil
}

// analyzePage runs one page end to end. It always produces a verdict:
// collaborator failures degrade the page rather than erroring it out.
func (s *documentAnalysisService) analyzePage(ctx context.Context, repo repository.PageRepository, ref string, pageNumber int) models.PageVerdict {
	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:  observer.PageAnalysisStarted,
		Timestamp:  start,
		PageRef:    ref,
		PageNumber: pageNumber,
	})

	page := models.PageVerdict{PageNumber: pageNumber, PageRef: ref}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.PageFetchTimeout)
	rasterPage, err := repo.FetchRaster(fetchCtx, ref)
	cancel()
	if err != nil {
		logger.WithError(err).WithField("page_ref", ref).Error("page raster unavailable")
		page.Forensic = forensics.Degraded(err.Error())
		page.Integrated = fusion.Fuse(page.Forensic, nil)
		page.Degraded = true
		s.notifyDegraded(ctx, ref, pageNumber, start, err)
		return page
	}

	opts := forensics.DefaultOptions()
	opts.ArtifactPrefix = fmt.Sprintf("page_%d", pageNumber)
	metrics, verdict := s.analyzer.Analyze(rasterPage, opts)

	// rescore under the scanned preset when the page classifies as a
	// scan; the signal chain itself is preset-independent
	if strat := strategy.ForClassification(metrics.Scan); strat.GetStrategyName() != "digital_analysis" {
		rescoreOpts := strat.Options()
		rescoreOpts.ArtifactPrefix = opts.ArtifactPrefix
		verdict = forensics.Score(metrics, rescoreOpts)
	}
	page.Forensic = verdict
	page.Metrics = metrics

	if s.assessorClient != nil {
		assessCtx, cancel := context.WithTimeout(ctx, s.cfg.AssessorTimeout)
		assessment, err := s.assessorClient.Assess(assessCtx, rasterPage, metrics, verdict)
		cancel()
		if err != nil {
			logger.WithError(err).WithField("page_ref", ref).Warn("visual assessor unavailable, fusing degraded")
			page.Degraded = true
			s.notifyDegraded(ctx, ref, pageNumber, start, err)
		} else {
			page.Assessment = assessment
		}
	} else {
		page.Degraded = true
	}

	page.Integrated = fusion.Fuse(page.Forensic, page.Assessment)

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.PageAnalysisCompleted,
		Timestamp:      time.Now(),
		PageRef:        ref,
		PageNumber:     pageNumber,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"forensic_score": page.Forensic.Score,
			"verdict":        page.Integrated.Label,
			"risk":           page.Integrated.Risk,
		},
	})
	return page
}

func (s *documentAnalysisService) notifyDegraded(ctx context.Context, ref string, pageNumber int, start time.Time, err error) {
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.PageAnalysisDegraded,
		Timestamp:      time.Now(),
		PageRef:        ref,
		PageNumber:     pageNumber,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}
