package designer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/spiritnsoul/couponart/internal/coupon"
	imagepkg "github.com/spiritnsoul/couponart/internal/image"
	"github.com/spiritnsoul/couponart/internal/logger"
	"github.com/spiritnsoul/couponart/internal/metrics"
	"github.com/spiritnsoul/couponart/internal/store"
)

// ErrGenerationFailed is the single failure callers show to users. The
// underlying pipeline error stays wrapped for errors.Is.
var ErrGenerationFailed = errors.New("design generation failed")

// ErrNotSaved reports a voucher that was designed but could not be stored.
// Generate still returns the voucher alongside it.
var ErrNotSaved = errors.New("local storage is full, please clear some old records")

// Service runs synthesize -> composite -> persist for one form submission.
type Service struct {
	synth      *imagepkg.Synthesizer
	compositor *imagepkg.Compositor
	store      store.Store
	metrics    *metrics.Metrics
	now        func() time.Time
	serial     func() string
}

func NewService(synth *imagepkg.Synthesizer, compositor *imagepkg.Compositor, st store.Store, m *metrics.Metrics) *Service {
	return &Service{
		synth:      synth,
		compositor: compositor,
		store:      st,
		metrics:    m,
		now:        time.Now,
		serial:     coupon.NewSerial,
	}
}

// Generate validates the form, designs the voucher and saves it.
// Validation failures return coupon.ErrInvalidRequest and design failures
// are wrapped in ErrGenerationFailed. A failed save returns the voucher
// together with an error wrapping ErrNotSaved. Nothing is retried.
func (s *Service) Generate(ctx context.Context, req coupon.Request) (*coupon.Generated, error) {
	now := s.now()
	req = req.WithDefaults(now)
	label := campaignLabel(req.DiscountType)

	if err := req.Validate(); err != nil {
		s.metrics.Generations.WithLabelValues(metrics.OutcomeInvalid, label).Inc()
		return nil, err
	}

	data := req.ToData(s.serial())
	log := logger.From(ctx).With().
		Str("serial", data.SerialNumber).
		Str("campaign_type", data.DiscountType).
		Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	result, err := s.design(ctx, data)
	if err != nil {
		s.metrics.Generations.WithLabelValues(metrics.OutcomeFailed, label).Inc()
		log.Error().
			Str("error", logger.Redact(err.Error())).
			Str("email", logger.RedactEmail(data.Email)).
			Msg("voucher generation failed")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	s.metrics.CompositeDuration.Observe(time.Since(start).Seconds())
	if result.Layout.WatermarkFallback {
		s.metrics.WatermarkFallbacks.Inc()
	}
	if result.Layout.HeroFontSize < result.Layout.HeroBaseSize {
		s.metrics.HeroShrinks.Inc()
	}

	gen := &coupon.Generated{
		ID:        uuid.NewString(),
		DataURL:   result.DataURI(),
		Data:      data,
		CreatedAt: now.UTC(),
	}
	if err := s.store.Save(ctx, *gen); err != nil {
		s.metrics.Generations.WithLabelValues(metrics.OutcomeUnsaved, label).Inc()
		log.Warn().
			Str("error", logger.Redact(err.Error())).
			Str("email", logger.RedactEmail(data.Email)).
			Msg("voucher generated but not saved")
		return gen, fmt.Errorf("%w: %w", ErrNotSaved, err)
	}

	s.metrics.Generations.WithLabelValues(metrics.OutcomeSuccess, label).Inc()
	log.Info().
		Str("email", logger.RedactEmail(data.Email)).
		Float64("hero_font_size", result.Layout.HeroFontSize).
		Bool("hero_truncated", result.Layout.HeroTruncated).
		Bool("watermark_fallback", result.Layout.WatermarkFallback).
		Msg("voucher generated")
	return gen, nil
}

func (s *Service) design(ctx context.Context, data coupon.Data) (*imagepkg.Result, error) {
	bg, err := s.synth.Generate(ctx, data.DiscountType)
	if err != nil {
		return nil, fmt.Errorf("synthesize background: %w", err)
	}
	return s.compositor.Composite(ctx, bg, data)
}

// campaignLabel bounds metric label cardinality to the known campaign types.
func campaignLabel(t string) string {
	if slices.Contains(coupon.CampaignTypes, t) {
		return t
	}
	return "other"
}
