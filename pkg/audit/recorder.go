package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// recorderBuffer is the async write channel size. A full buffer drops
// the record rather than blocking a proxied request.
const recorderBuffer = 1000

// writeTimeout bounds a single storage write.
const writeTimeout = 5 * time.Second

// Recorder writes audit records asynchronously so recording never adds
// latency to a proxied request.
type Recorder struct {
	store   Store
	records chan *Record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
}

// NewRecorder creates a recorder over the given store and starts its
// background writer.
func NewRecorder(store Store) *Recorder {
	r := &Recorder{
		store:   store,
		records: make(chan *Record, recorderBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record queues one record for writing. A missing ID or timestamp is
// filled in. When the buffer is full the record is dropped and counted
// in the log; audit must never stall the request path.
func (r *Recorder) Record(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	select {
	case r.records <- rec:
	default:
		r.logger.Warn("audit buffer full, dropping record",
			"correlation_id", rec.CorrelationID,
			"route", rec.Route,
		)
	}
}

// run is the background writer goroutine.
func (r *Recorder) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			// Drain what is already queued.
			for {
				select {
				case rec := <-r.records:
					r.write(rec)
				default:
					return
				}
			}
		case rec := <-r.records:
			r.write(rec)
		}
	}
}

// write persists one record with a bounded timeout.
func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.Insert(ctx, rec); err != nil {
		r.logger.Error("failed to write audit record",
			"correlation_id", rec.CorrelationID,
			"error", err,
		)
	}
}

// Close stops the background writer after draining queued records.
// The store itself is not closed; the caller owns it.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
}
