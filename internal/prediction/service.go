package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sharpline/internal/gateway/events"
	"sharpline/internal/logger"
	"sharpline/internal/pkg/odds"
	"sharpline/internal/quota"
	"sharpline/internal/store/model"
)

// QuotaGate is satisfied by *quota.Gate.
type QuotaGate interface {
	Admit(ctx context.Context, id quota.Identity) (quota.Decision, error)
	Usage(ctx context.Context, id quota.Identity) (quota.Decision, error)
}

// Recorder persists the primary result of a successful request.
type Recorder interface {
	SavePrediction(ctx context.Context, rec *model.PredictionModel) error
}

// Request is one caller submission.
type Request struct {
	Identity   quota.Identity
	Input      Input
	Models     []string
	NotebookID string
}

// Service runs the full prediction flow: validate, admit, dispatch, compute
// metrics, then record and announce the primary result.
type Service struct {
	dispatcher *Dispatcher
	gate       QuotaGate
	recorder   Recorder
	publisher  events.Publisher
	limits     Limits
	now        func() time.Time
	newID      func() string
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) { s.newID = fn }
}

func NewService(d *Dispatcher, gate QuotaGate, recorder Recorder, publisher events.Publisher, limits Limits, opts ...ServiceOption) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	s := &Service{
		dispatcher: d,
		gate:       gate,
		recorder:   recorder,
		publisher:  publisher,
		limits:     limits,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Dispatcher() *Dispatcher { return s.dispatcher }

// Usage reports today's quota for id.
func (s *Service) Usage(ctx context.Context, id quota.Identity) (quota.Decision, error) {
	if s.gate == nil {
		return quota.Decision{}, nil
	}
	return s.gate.Usage(ctx, id)
}

// Predict returns *ValidationError, *quota.ExceededError or *PrimaryFailedError
// for request-level failures. Per-provider failures are reported in
// Response.Errors.
func (s *Service) Predict(ctx context.Context, req Request) (Response, error) {
	if err := req.Input.Validate(s.limits); err != nil {
		return Response{}, err
	}
	if s.gate != nil {
		if _, err := s.gate.Admit(ctx, req.Identity); err != nil {
			return Response{}, err
		}
	}
	env, err := s.dispatcher.Dispatch(ctx, req.Input, req.Models)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Results: env.Results,
		Odds:    req.Input.Odds,
	}
	if len(env.Errors) > 0 {
		resp.Errors = env.Errors
	}
	if req.Input.Odds != nil && *req.Input.Odds != 0 {
		resp.Metrics = make(map[string]odds.Metrics, len(env.Results))
		for id, res := range env.Results {
			resp.Metrics[id] = odds.Evaluate(res.Probability, *req.Input.Odds)
		}
	}
	resp.PredictionID = s.record(ctx, req, env)
	return resp, nil
}

// record stores and publishes the primary result. Failures are logged and
// never fail the request.
func (s *Service) record(ctx context.Context, req Request, env Envelope) string {
	if s.recorder == nil {
		return ""
	}
	primary := env.Results[env.Primary]
	resultJSON, err := json.Marshal(primary)
	if err != nil {
		logger.Errorf("encode primary result failed: %v", err)
		return ""
	}
	models := s.dispatcher.ResolveIDs(req.Models)
	modelsJSON, _ := json.Marshal(models)
	rec := &model.PredictionModel{
		ID:         s.newID(),
		UserID:     req.Identity.UserRef(),
		Prompt:     req.Input.Prompt,
		Sport:      req.Input.Sport,
		BetType:    string(req.Input.BetType),
		ModelsUsed: datatypes.JSON(modelsJSON),
		ResultJSON: datatypes.JSON(resultJSON),
		CreatedAt:  s.now().UTC(),
	}
	if req.NotebookID != "" {
		nb := req.NotebookID
		rec.NotebookID = &nb
	}
	if err := s.recorder.SavePrediction(ctx, rec); err != nil {
		logger.Errorf("save prediction failed: %v", err)
		return ""
	}
	evt := events.PredictionCreated{
		Type:         events.TypePredictionCreated,
		PredictionID: rec.ID,
		UserID:       rec.UserID,
		Sport:        rec.Sport,
		BetType:      rec.BetType,
		Models:       models,
		Primary:      env.Primary,
		Probability:  primary.Probability,
		Confidence:   primary.Confidence,
		Odds:         req.Input.Odds,
		CreatedAt:    rec.CreatedAt,
	}
	if err := s.publisher.PublishPredictionCreated(ctx, evt); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warnf("publish %s failed id=%s: %v", events.TypePredictionCreated, rec.ID, err)
	}
	return rec.ID
}
