// Package service drives one submission through the processing
// pipeline: transcription, classification, response generation, speech
// synthesis, persistence and broadcast, in that fixed order.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/mayday/internal/adapters/repository"
	"github.com/okian/mayday/internal/domain/classify"
	"github.com/okian/mayday/internal/domain/model"
	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"
)

// Transcriber converts raw audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Generator produces reply text for a classified transcript. Success
// always carries non-empty text.
type Generator interface {
	Generate(ctx context.Context, category model.Category, severity int, transcript string) (string, error)
}

// Synthesizer converts reply text to audio bytes. Failure is a valid,
// non-exceptional outcome from the pipeline's point of view.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Broadcaster fans a completed event out to live observers.
type Broadcaster interface {
	Publish(ctx context.Context, e model.Event)
	Count() int
}

// Service implements the API dependencies for the dispatch pipeline.
// All collaborators are injected; the service holds no ambient global
// state.
type Service struct {
	mu sync.RWMutex

	transcriber Transcriber
	classifier  *classify.Classifier
	generator   Generator
	synthesizer Synthesizer
	store       repository.Store
	hub         Broadcaster

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTranscriber sets the transcription adapter.
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) {
		if t != nil {
			s.transcriber = t
		}
	}
}

// WithClassifier sets the transcript classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithGenerator sets the response-generation adapter.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithSynthesizer sets the speech-synthesis adapter.
func WithSynthesizer(sy Synthesizer) Option {
	return func(s *Service) {
		if sy != nil {
			s.synthesizer = sy
		}
	}
}

// WithStore sets the event log.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHub sets the broadcast hub.
func WithHub(hub Broadcaster) Option {
	return func(s *Service) {
		if hub != nil {
			s.hub = hub
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The classifier defaults to the standard
// rule set; every other collaborator must be supplied via options
// before Start.
func New(opts ...Option) *Service {
	s := &Service{
		classifier: classify.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates the wiring. The pipeline itself runs per submission
// and needs no background goroutines.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}

	switch {
	case s.transcriber == nil:
		return fmt.Errorf("%w: transcriber", ErrMissingDependency)
	case s.generator == nil:
		return fmt.Errorf("%w: generator", ErrMissingDependency)
	case s.synthesizer == nil:
		return fmt.Errorf("%w: synthesizer", ErrMissingDependency)
	case s.store == nil:
		return fmt.Errorf("%w: store", ErrMissingDependency)
	case s.hub == nil:
		return fmt.Errorf("%w: hub", ErrMissingDependency)
	}

	s.started = true
	s.logger.Info(ctx, "dispatch pipeline started")
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "dispatch pipeline stopped")
}

// Process drives one submission through the stage chain and returns
// the resulting event. The event has already been appended to the log
// and broadcast when Process returns; storage and synthesis failures
// degrade the event but do not fail the submission, transcription and
// generation failures abort it.
func (s *Service) Process(ctx context.Context, audio []byte) (model.Event, error) {
	// Stage 1: transcription. No transcript means no meaningful
	// downstream work.
	stageStart := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, audio)
	metrics.RecordStageDuration("transcription", sinceMs(stageStart))
	if err != nil {
		metrics.RecordCallFailed("transcription")
		s.logger.Error(ctx, "transcription failed", logger.Error(err))
		return model.Event{}, fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	// Stage 2: classification. Total; cannot fail.
	classification := s.classifier.Classify(transcript)
	s.logger.Info(ctx, "transcript classified",
		logger.String("category", string(classification.Category)),
		logger.Int("severity", classification.Severity),
	)

	// Stage 3: response generation. No fallback text on failure.
	stageStart = time.Now()
	replyText, err := s.generator.Generate(ctx, classification.Category, classification.Severity, transcript)
	metrics.RecordStageDuration("generation", sinceMs(stageStart))
	if err != nil {
		metrics.RecordCallFailed("generation")
		s.logger.Error(ctx, "response generation failed", logger.Error(err))
		return model.Event{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	// Stage 4: speech synthesis. Non-fatal; the event ships without
	// audio.
	stageStart = time.Now()
	replyAudio, err := s.synthesizer.Synthesize(ctx, replyText)
	metrics.RecordStageDuration("synthesis", sinceMs(stageStart))
	if err != nil {
		metrics.RecordSynthesisFailure()
		s.logger.Warn(ctx, "speech synthesis failed; event ships without audio",
			logger.Error(fmt.Errorf("%w: %w", ErrSynthesis, err)),
		)
		replyAudio = nil
	}

	// Stage 5: construct the immutable event.
	event := model.Event{
		ID:         uuid.NewString(),
		Transcript: transcript,
		Category:   classification.Category,
		Severity:   classification.Severity,
		ReplyText:  replyText,
		ReplyAudio: replyAudio,
		CreatedAt:  time.Now().UTC(),
	}

	// Stage 6: durable persistence. A failed append degrades the
	// durability guarantee but live observers still get the event;
	// the two concerns are independent.
	if err := s.store.Append(ctx, event); err != nil {
		metrics.RecordErrorByComponent("store", "append_failed")
		s.logger.Error(ctx, "event append failed; broadcasting anyway",
			logger.String("event", event.ID),
			logger.Error(fmt.Errorf("%w: %w", ErrStorage, err)),
		)
	}

	// Stage 7: best-effort fan-out.
	s.hub.Publish(ctx, event)

	metrics.RecordCallProcessed()
	metrics.RecordEventCategory(string(event.Category))

	s.logger.Info(ctx, "submission processed",
		logger.String("event", event.ID),
		logger.String("category", string(event.Category)),
		logger.Int("severity", event.Severity),
		logger.Int("reply_audio_bytes", len(event.ReplyAudio)),
	)

	return event, nil
}

// Recent returns up to limit events from the log, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	return s.store.Recent(ctx, limit)
}

// Purge clears the event log. Administrative only.
func (s *Service) Purge(ctx context.Context) error {
	return s.store.Purge(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		stored := s.store.Count(ctx)
		observers := s.hub.Count()

		stats["storedEvents"] = stored
		stats["observers"] = observers

		metrics.UpdateStoredEvents(stored)
		metrics.UpdateWSConnections(observers)
	}

	return stats
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Milliseconds())
}
