package mirror

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
	"github.com/LinukPerera/IoT-Buoy-2025/internal/metrics"
)

const publishTimeout = 5 * time.Second

// Syncer propagates committed readings to the mirror. Failures are logged
// and counted, never returned: the durable store is the system of record and
// an ingestion response must not depend on the mirror.
type Syncer struct {
	mirror Mirror
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewSyncer(m Mirror, logger *slog.Logger) *Syncer {
	return &Syncer{mirror: m, logger: logger}
}

// Dispatch publishes the reading on a detached goroutine. The goroutine owns
// its own timeout context rather than the request's, so a client disconnect
// after the durable commit cannot cancel the mirror write.
func (s *Syncer) Dispatch(r domain.Reading) {
	if !s.mirror.Enabled() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.publish(r)
	}()
}

func (s *Syncer) publish(r domain.Reading) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.mirror.Publish(ctx, r); err != nil {
		metrics.MirrorPublishFailures.Inc()
		s.logger.Error("mirror publish failed", "reading_id", r.ID, "error", err)
	}
}

func (s *Syncer) Enabled() bool { return s.mirror.Enabled() }

// Wait blocks until all dispatched publishes have finished.
func (s *Syncer) Wait() { s.wg.Wait() }
