package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/broker"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/metrics"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/mirror"
)

const flushInterval = 5 * time.Second

// BulkReadingUpload is the uplink wire format: a shore gateway relays one or
// more buffered sensor payloads per message.
type BulkReadingUpload struct {
	Readings []domain.CreateReading `json:"readings"`
}

// Worker drains the uplink queue: each payload passes through the same
// normalization as the HTTP path, commits in batches, and is then handed to
// the mirror syncer.
type Worker struct {
	store       domain.ReadingStore
	syncer      *mirror.Syncer
	logger      *slog.Logger
	workerCount int
	batchSize   int
}

func NewWorker(store domain.ReadingStore, syncer *mirror.Syncer, logger *slog.Logger, workerCount, batchSize int) *Worker {
	return &Worker{
		store:       store,
		syncer:      syncer,
		logger:      logger,
		workerCount: workerCount,
		batchSize:   batchSize,
	}
}

func (w *Worker) Start(ctx context.Context, mq broker.MessageQueue) error {
	incoming := make(chan domain.Reading, w.batchSize*w.workerCount)

	handler := func(data []byte) error {
		var upload BulkReadingUpload
		if err := json.Unmarshal(data, &upload); err != nil {
			return fmt.Errorf("failed to unmarshal uplink payload: %w", err)
		}

		for _, c := range upload.Readings {
			r, err := domain.NewReading(c)
			if err != nil {
				// Bad payloads are dropped, not retried; the rest of the
				// batch still commits.
				metrics.ValidationFailures.Inc()
				w.logger.Warn("dropping invalid uplink reading", "error", err)
				continue
			}
			select {
			case incoming <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	go func() {
		if err := mq.Consume(ctx, handler); err != nil && ctx.Err() == nil {
			w.logger.Error("uplink consume stopped", "error", err)
		}
	}()

	var wg sync.WaitGroup
	for i := range w.workerCount {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.run(ctx, workerID, incoming)
		}(i)
	}

	wg.Wait()
	return nil
}

func (w *Worker) run(ctx context.Context, workerID int, incoming <-chan domain.Reading) {
	w.logger.Info("uplink worker started", "worker_id", workerID)
	defer w.logger.Info("uplink worker stopped", "worker_id", workerID)

	batch := make([]domain.Reading, 0, w.batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				w.processBatch(batch)
			}
			return
		case r := <-incoming:
			batch = append(batch, r)
			if len(batch) >= w.batchSize {
				w.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

// processBatch commits the batch, then mirrors each reading. A store failure
// drops the whole batch: retry policy belongs to the gateway, not here.
func (w *Worker) processBatch(batch []domain.Reading) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.store.InsertBatch(ctx, batch); err != nil {
		metrics.StoreFailures.Inc()
		w.logger.Error("failed to store uplink batch", "count", len(batch), "error", err)
		return
	}

	for _, r := range batch {
		metrics.ReadingsIngested.Inc()
		w.syncer.Dispatch(r)
	}
	metrics.LastReadingTimestamp.Set(float64(time.Now().Unix()))

	w.logger.Info("processed uplink batch", "count", len(batch), "duration", time.Since(start))
}
