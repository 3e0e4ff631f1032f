package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/events"
	"github.com/medigo/orders-service/internal/logger"
	"github.com/medigo/orders-service/internal/repository"
)

// DefaultRoute is the simulated courier route. Three fixed points around
// Koramangala; the last one is held once the route is exhausted.
var DefaultRoute = []domain.Waypoint{
	{Lat: 12.9279, Lng: 77.6271},
	{Lat: 12.9285, Lng: 77.6290},
	{Lat: 12.9290, Lng: 77.6310},
}

// Simulator advances paid orders through the route in the background, one
// goroutine per order. Start is idempotent per order id, so re-verifying a
// payment never spawns a second courier.
type Simulator struct {
	store    *repository.OrderStore
	producer *events.Producer
	route    []domain.Waypoint
	tick     time.Duration

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func NewSimulator(store *repository.OrderStore, producer *events.Producer, tick time.Duration) *Simulator {
	return &Simulator{
		store:    store,
		producer: producer,
		route:    DefaultRoute,
		tick:     tick,
		active:   make(map[string]context.CancelFunc),
	}
}

// Start launches the delivery run for an order. Returns false when a run is
// already live for that id or the order is already delivered.
func (s *Simulator) Start(orderID string) bool {
	o, ok := s.store.Get(orderID)
	if !ok || o.Status.Terminal() {
		return false
	}

	s.mu.Lock()
	if _, running := s.active[orderID]; running {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.active[orderID] = cancel
	s.mu.Unlock()

	go s.run(ctx, orderID)
	return true
}

// Stop cancels an in-flight run. Extension point for order voiding and test
// teardown; the order keeps whatever status it reached.
func (s *Simulator) Stop(orderID string) {
	s.mu.Lock()
	cancel, ok := s.active[orderID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// StopAll cancels every in-flight run.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.active))
	for _, c := range s.active {
		cancels = append(cancels, c)
	}
	s.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

func (s *Simulator) Running(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[orderID]
	return ok
}

func (s *Simulator) finish(orderID string) {
	s.mu.Lock()
	cancel, ok := s.active[orderID]
	delete(s.active, orderID)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Simulator) run(ctx context.Context, orderID string) {
	defer s.finish(orderID)

	t := time.NewTicker(s.tick)
	defer t.Stop()

	idx := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		var snapshot domain.Order
		wp := s.route[min(idx, len(s.route)-1)]
		done := idx >= len(s.route)
		ok := s.store.Update(orderID, func(o *domain.Order) {
			o.Delivery = &domain.Waypoint{Lat: wp.Lat, Lng: wp.Lng}
			if idx == 0 {
				o.Status = domain.StatusOutForDelivery
			}
			if done {
				o.Status = domain.StatusDelivered
			}
			snapshot = *o
		})
		if !ok {
			// Record vanished; nothing to report, just stop.
			return
		}

		s.producer.PublishStatus(ctx, snapshot)
		if done {
			logger.Info("order delivered", "id", orderID)
			return
		}
		idx++
	}
}
