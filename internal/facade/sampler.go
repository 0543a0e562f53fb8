package facade

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"aegis/internal/models"
)

const defaultSampleInterval = 5 * time.Second

// Publisher receives encoded status snapshots.
type Publisher interface {
	Broadcast(message []byte)
}

// Sampler periodically computes the status snapshot and hands it to a Publisher.
type Sampler struct {
	facade    *Facade
	host      *HostMonitor
	publisher Publisher
	interval  time.Duration

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSampler returns a stopped sampler. A non-positive interval uses 5s.
func NewSampler(f *Facade, pub Publisher, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &Sampler{facade: f, host: NewHostMonitor(), publisher: pub, interval: interval}
}

// Start launches the background loop. Calling Start twice is a no-op.
func (s *Sampler) Start() {
	if s == nil || s.facade == nil || s.publisher == nil {
		return
	}
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s.publish(ctx)
		for {
			select {
			case <-ticker.C:
				s.publish(ctx)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit.
func (s *Sampler) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	s.wg.Wait()
}

func (s *Sampler) publish(ctx context.Context) {
	event := models.StatusEvent{
		Type: "status",
		Data: s.facade.GetStatus(ctx),
		Host: s.host.Sample(ctx),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.facade.log != nil {
			s.facade.log.Errorf("encode status snapshot: %v", err)
		}
		return
	}
	s.publisher.Broadcast(payload)
}
