// Package store provides durable, append-only persistence of phase records
// and run summaries.
//
// Each orchestration run owns an independent run directory; records are
// written once under uniquely named, sequence-prefixed locators so listing a
// run directory reconstructs execution order without reading file contents.
// Append-only naming means concurrent runs over the same root need no
// cross-run locking.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/conductor/internal/store"

// ErrStoreClosed rejects writes after Close.
var ErrStoreClosed = errors.New("store is closed")

// Store persists phase records and run summaries. A persistence failure is
// fatal to the run: callers must not swallow errors from these methods.
type Store interface {
	// PersistPhase durably writes one phase record, returning its locator.
	PersistPhase(ctx context.Context, record *PhaseRecord) (string, error)

	// PersistSummary durably writes the run summary, returning its locator.
	PersistSummary(ctx context.Context, summary any) (string, error)

	// Close releases the store.
	Close() error
}

// FSStore implements Store on the local filesystem.
type FSStore struct {
	runDir string
	logger *zap.Logger

	tracer       trace.Tracer
	meter        metric.Meter
	writeCounter metric.Int64Counter

	mu     sync.Mutex
	seq    int
	closed bool
}

// NewRunID generates a run identifier that sorts by creation time and is
// unique across concurrent runs.
func NewRunID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
}

// NewFSStore creates a store rooted at runDir, initializing the directory
// idempotently if absent.
func NewFSStore(runDir string, logger *zap.Logger) (*FSStore, error) {
	if runDir == "" {
		return nil, errors.New("run directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(runDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	s := &FSStore{
		runDir: runDir,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	var err error
	s.writeCounter, err = s.meter.Int64Counter(
		"conductor.store.writes_total",
		metric.WithDescription("Total number of records persisted"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		s.logger.Warn("failed to create write counter", zap.Error(err))
	}

	return s, nil
}

// RunDir returns the directory this store writes into.
func (s *FSStore) RunDir() string {
	return s.runDir
}

// PersistPhase writes one record under a fresh locator. Re-persisting the
// same logical phase yields a new locator, never an overwrite.
func (s *FSStore) PersistPhase(ctx context.Context, record *PhaseRecord) (string, error) {
	ctx, span := s.tracer.Start(ctx, "store.persist_phase")
	defer span.End()

	if record == nil {
		return "", errors.New("nil phase record")
	}
	if err := record.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("invalid phase record: %w", err)
	}
	span.SetAttributes(
		attribute.String("phase", record.Phase),
		attribute.Bool("failed", record.Failed()),
	)

	locator, err := s.write(ctx, record.Phase, record)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	s.logger.Debug("persisted phase record",
		zap.String("phase", record.Phase),
		zap.String("locator", locator))
	return locator, nil
}

// PersistSummary writes the run summary as the final record of the run.
func (s *FSStore) PersistSummary(ctx context.Context, summary any) (string, error) {
	ctx, span := s.tracer.Start(ctx, "store.persist_summary")
	defer span.End()

	locator, err := s.write(ctx, "summary", summary)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	s.logger.Debug("persisted run summary", zap.String("locator", locator))
	return locator, nil
}

// Close marks the store closed. Further writes fail with ErrStoreClosed.
func (s *FSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// write serializes v and creates the next sequence-prefixed file. O_EXCL
// guarantees write-once even if locator generation ever collided.
func (s *FSStore) write(ctx context.Context, slug string, v any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	s.seq++
	locator := fmt.Sprintf("%04d-%s-%s.json", s.seq, sanitizeSlug(slug), uuid.NewString()[:8])

	f, err := os.OpenFile(filepath.Join(s.runDir, locator), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create record file %s: %w", locator, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write record file %s: %w", locator, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close record file %s: %w", locator, err)
	}

	if s.writeCounter != nil {
		s.writeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("slug", slug)))
	}
	return locator, nil
}

// sanitizeSlug keeps locator names filesystem-safe.
func sanitizeSlug(slug string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, slug)
}
