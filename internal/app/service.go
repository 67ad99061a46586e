// Package service owns the dataset and renderer and hands out encoded charts
// to the HTTP layer and the save command.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/qradar/internal/domain/qvalue"
	"github.com/okian/qradar/internal/render"
	"github.com/okian/qradar/pkg/logger"
	"github.com/okian/qradar/pkg/metrics"
)

// Sentinel error kinds for the service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrSave       = errors.New("save chart failed")
)

const outputFileMode = 0o644

// Chart is one encoded rendering of the dataset.
type Chart struct {
	ID         string
	Format     render.Format
	Data       []byte
	RenderedAt time.Time
	Duration   time.Duration
}

// Service renders the q-value radar chart and caches each encoding.
type Service struct {
	mu sync.RWMutex

	dataset  qvalue.Dataset
	renderer *render.Renderer
	cache    map[render.Format]*Chart

	started bool
	logger  logger.Logger

	renders   int
	cacheHits int
	saves     int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer sets the chart renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithDataset replaces the built-in dataset.
func WithDataset(ds qvalue.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// New constructs a Service over the built-in dataset.
func New(opts ...Option) *Service {
	s := &Service{
		dataset: qvalue.Default(),
		cache:   make(map[render.Format]*Chart),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the dataset and renders the PNG chart once so the first
// request is served from cache.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.renderer == nil {
		r, err := render.New()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("create renderer: %w", err)
		}
		s.renderer = r
	}
	if err := s.dataset.Validate(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", render.ErrInvalidDataset, err)
	}
	s.started = true
	s.mu.Unlock()

	width, height := s.renderer.Size()
	s.logger.Info(ctx, "starting radar chart service",
		logger.Int("factors", len(s.dataset.Factors)),
		logger.Int("series", len(s.dataset.Series)),
		logger.Int("width", width),
		logger.Int("height", height),
		logger.Float64("dpi", s.renderer.DPI()),
	)

	if _, err := s.Chart(ctx, render.FormatPNG); err != nil {
		s.Stop()
		return fmt.Errorf("warm chart cache: %w", err)
	}
	return nil
}

// Stop drops cached charts and marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cache = make(map[render.Format]*Chart)
	s.started = false
	s.logger.Info(context.Background(), "radar chart service stopped")
}

// Dataset returns a copy of the dataset being charted.
func (s *Service) Dataset() qvalue.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := qvalue.Dataset{
		Factors: append([]qvalue.Factor(nil), s.dataset.Factors...),
		Series:  make([]qvalue.Series, len(s.dataset.Series)),
	}
	for i, series := range s.dataset.Series {
		ds.Series[i] = qvalue.Series{Year: series.Year, Values: append([]float64(nil), series.Values...)}
	}
	return ds
}

// Chart returns the chart encoded in format, rendering it on first use.
func (s *Service) Chart(ctx context.Context, format render.Format) (*Chart, error) {
	s.mu.RLock()
	started := s.started
	cached := s.cache[format]
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if cached != nil {
		s.mu.Lock()
		s.cacheHits++
		s.mu.Unlock()
		metrics.RecordCacheHit(string(format))
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another caller may have rendered while we waited for the lock
	if c := s.cache[format]; c != nil {
		s.cacheHits++
		metrics.RecordCacheHit(string(format))
		return c, nil
	}

	c, err := s.render(ctx, format)
	if err != nil {
		return nil, err
	}
	s.cache[format] = c
	return c, nil
}

// render must be called with s.mu held.
func (s *Service) render(ctx context.Context, format render.Format) (*Chart, error) {
	id := uuid.NewString()
	start := time.Now()

	var buf bytes.Buffer
	if err := s.renderer.Render(ctx, s.dataset, format, &buf); err != nil {
		metrics.RecordRenderError(string(format))
		s.logger.Error(ctx, "chart render failed",
			logger.String("render_id", id),
			logger.String("format", string(format)),
			logger.Error(err),
		)
		return nil, err
	}

	took := time.Since(start)
	s.renders++
	metrics.RecordRender(string(format), float64(took.Microseconds())/1000, buf.Len())
	s.logger.Debug(ctx, "chart rendered",
		logger.String("render_id", id),
		logger.String("format", string(format)),
		logger.Int("bytes", buf.Len()),
		logger.Duration("took", took),
	)

	return &Chart{
		ID:         id,
		Format:     format,
		Data:       buf.Bytes(),
		RenderedAt: start,
		Duration:   took,
	}, nil
}

// Save writes the chart to path. An empty format is inferred from the file
// extension. The file is written to a temporary sibling and renamed into
// place so a failed save never leaves a truncated image behind.
func (s *Service) Save(ctx context.Context, path string, format render.Format) error {
	if format == "" {
		f, err := render.FormatFromPath(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
		format = f
	}

	c, err := s.Chart(ctx, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(c.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrSave, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrSave, tmpName, err)
	}
	if err := os.Chmod(tmpName, outputFileMode); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrSave, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrSave, path, err)
	}

	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	metrics.RecordSave()
	s.logger.Info(ctx, "chart saved",
		logger.String("path", path),
		logger.String("format", string(format)),
		logger.Int("bytes", len(c.Data)),
		logger.String("render_id", c.ID),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := make([]string, 0, len(s.cache))
	for f := range s.cache {
		cached = append(cached, string(f))
	}
	slices.Sort(cached)
	stats := map[string]interface{}{
		"started":   s.started,
		"factors":   len(s.dataset.Factors),
		"series":    len(s.dataset.Series),
		"renders":   s.renders,
		"cacheHits": s.cacheHits,
		"saves":     s.saves,
		"cached":    cached,
	}
	if s.renderer != nil {
		w, h := s.renderer.Size()
		stats["width"] = w
		stats["height"] = h
		stats["dpi"] = s.renderer.DPI()
	}
	return stats
}
