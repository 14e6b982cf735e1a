// Package service contains the business logic for the app core service.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storeforge/appcore/internal/domain/model"
	"github.com/storeforge/appcore/internal/logger"
	"github.com/storeforge/appcore/internal/repository"
)

// RecorderConfig holds configuration for the async app request recorder.
type RecorderConfig struct {
	// BufferSize is the size of the record channel buffer.
	BufferSize int
	// NumWorkers is the number of worker goroutines persisting records.
	NumWorkers int
	// WriteTimeout is the timeout for writing a record to the database.
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns sensible defaults for the recorder.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		BufferSize:   1000,
		NumWorkers:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder persists app requests asynchronously through a buffered channel
// and a fixed worker pool, so configuration injection never blocks on the
// database and load spikes cannot create unbounded goroutines.
type Recorder struct {
	repo         repository.AppRequestsRepositoryInterface
	recordCh     chan *model.AppRequestRecord
	wg           sync.WaitGroup
	stopCh       chan struct{}
	writeTimeout time.Duration

	// Metrics
	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewRecorder creates a new recorder with the given configuration.
// Returns nil when no repository is available, in which case recording
// is disabled.
func NewRecorder(repo repository.AppRequestsRepositoryInterface, cfg RecorderConfig) *Recorder {
	if repo == nil {
		return nil
	}

	r := &Recorder{
		repo:         repo,
		recordCh:     make(chan *model.AppRequestRecord, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		r.wg.Add(1)
		go r.worker()
	}

	return r
}

// worker processes records from the channel.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record, ok := <-r.recordCh:
			if !ok {
				return
			}
			r.writeRecord(record)
		case <-r.stopCh:
			// Drain remaining records before stopping
			for {
				select {
				case record := <-r.recordCh:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord persists a single record.
func (r *Recorder) writeRecord(record *model.AppRequestRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.repo.Create(ctx, record); err != nil {
		atomic.AddInt64(&r.errors, 1)
		log := logger.Logger()
		log.Warn().Err(err).Str("app_name", record.AppName).Msg("Failed to persist app request record")
	} else {
		atomic.AddInt64(&r.written, 1)
	}
}

// Record enqueues an app request record for async persistence.
// Returns true if the record was enqueued, false if the buffer is full.
func (r *Recorder) Record(record *model.AppRequestRecord) bool {
	if r == nil {
		return false
	}
	select {
	case r.recordCh <- record:
		atomic.AddInt64(&r.enqueued, 1)
		return true
	default:
		// Buffer full, drop the record
		atomic.AddInt64(&r.dropped, 1)
		return false
	}
}

// Stop gracefully shuts down the recorder.
// It waits for all pending records to be persisted.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	close(r.stopCh)
	r.wg.Wait()
	close(r.recordCh)
}

// Stats returns current recorder statistics.
func (r *Recorder) Stats() (enqueued, dropped, written, errors int64) {
	if r == nil {
		return 0, 0, 0, 0
	}
	return atomic.LoadInt64(&r.enqueued),
		atomic.LoadInt64(&r.dropped),
		atomic.LoadInt64(&r.written),
		atomic.LoadInt64(&r.errors)
}
