package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent reports progress of a document or page analysis.
// Progress reporting is an observer concern, never inline mutation of
// shared state in the pipeline.
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	PageRef        string                 `json:"page_ref,omitempty"`
	PageNumber     int                    `json:"page_number,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// PageAnalysisStarted when a page enters the forensic pipeline
	PageAnalysisStarted EventType = "page_analysis_started"
	// PageAnalysisCompleted when a page has its integrated verdict
	PageAnalysisCompleted EventType = "page_analysis_completed"
	// PageAnalysisDegraded when a page proceeds without full data
	PageAnalysisDegraded EventType = "page_analysis_degraded"
	// DocumentCompleted when the document summary is produced
	DocumentCompleted EventType = "document_completed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"page_ref":        event.PageRef,
		"page_number":     event.PageNumber,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case PageAnalysisStarted:
		o.logger.WithFields(fields).Info("Page analysis started")
	case PageAnalysisCompleted:
		o.logger.WithFields(fields).Info("Page analysis completed")
	case PageAnalysisDegraded:
		o.logger.WithFields(fields).Warn("Page analysis degraded")
	case DocumentCompleted:
		o.logger.WithFields(fields).Info("Document analysis completed")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from analysis events
type MetricsObserver struct {
	mu             sync.RWMutex
	pagesStarted   int64
	pagesCompleted int64
	pagesDegraded  int64
	documentsDone  int64
	totalDuration  time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case PageAnalysisStarted:
		o.pagesStarted++
	case PageAnalysisCompleted:
		o.pagesCompleted++
		o.totalDuration += event.ProcessingTime
	case PageAnalysisDegraded:
		o.pagesDegraded++
	case DocumentCompleted:
		o.documentsDone++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avg := time.Duration(0)
	if o.pagesCompleted > 0 {
		avg = o.totalDuration / time.Duration(o.pagesCompleted)
	}

	return map[string]interface{}{
		"pages_started":       o.pagesStarted,
		"pages_completed":     o.pagesCompleted,
		"pages_degraded":      o.pagesDegraded,
		"documents_completed": o.documentsDone,
		"avg_page_time":       avg,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{observers: make([]Observer, 0)}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event, isolating
// observer panics from the pipeline.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
