package application

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/medigo/orders-service/internal/delivery"
	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/events"
	"github.com/medigo/orders-service/internal/gateway"
	"github.com/medigo/orders-service/internal/logger"
	"github.com/medigo/orders-service/internal/repository"
)

const defaultCurrency = "INR"

// OrdersService owns the order lifecycle: creation, payment verification and
// status reads. gw is nil in demo mode; the producer may be nil when kafka
// is not configured.
type OrdersService struct {
	store    *repository.OrderStore
	gw       *gateway.Client
	gwSecret string
	sim      *delivery.Simulator
	producer *events.Producer
}

func NewOrdersService(store *repository.OrderStore, gw *gateway.Client, gwSecret string, sim *delivery.Simulator, producer *events.Producer) *OrdersService {
	return &OrdersService{
		store:    store,
		gw:       gw,
		gwSecret: gwSecret,
		sim:      sim,
		producer: producer,
	}
}

type CreateOrderResult struct {
	OrderID      string        `json:"orderId"`
	GatewayOrder gateway.Order `json:"rzpOrder"`
	KeyID        string        `json:"keyId"`
}

// CoerceAmount mirrors the storefront's historical input handling: any
// non-positive or non-numeric amount becomes 1 unit rather than an error.
func CoerceAmount(v any) int64 {
	var n int64
	switch x := v.(type) {
	case float64:
		n = int64(x)
	case int64:
		n = x
	case int:
		n = int64(x)
	case json.Number:
		f, err := x.Float64()
		if err == nil {
			n = int64(f)
		}
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err == nil {
			n = int64(f)
		}
	}
	if n < 1 {
		return 1
	}
	return n
}

// CreateOrder builds the local record and, in production mode, registers it
// with the gateway. The returned key id is empty in demo mode, which the
// client reads as "skip the payment widget and call verify directly".
func (s *OrdersService) CreateOrder(ctx context.Context, rawAmount any, currency string) (*CreateOrderResult, error) {
	amount := CoerceAmount(rawAmount)
	if currency == "" {
		currency = defaultCurrency
	}
	localID := domain.NewOrderID()

	record := &domain.Order{
		ID:       localID,
		Amount:   amount,
		Currency: currency,
		Status:   domain.StatusCreated,
	}

	var res CreateOrderResult
	if s.gw != nil {
		gwo, err := s.gw.CreateOrder(ctx, amount*100, currency, localID)
		if err != nil {
			return nil, err
		}
		record.GatewayOrderID = gwo.ID
		res = CreateOrderResult{OrderID: localID, GatewayOrder: *gwo, KeyID: s.gw.KeyID()}
	} else {
		fake := gateway.Order{
			ID:       "rzp_fake_" + localID,
			Amount:   amount * 100,
			Currency: currency,
		}
		record.GatewayOrderID = fake.ID
		res = CreateOrderResult{OrderID: localID, GatewayOrder: fake, KeyID: ""}
	}

	s.store.Put(record)
	s.producer.PublishStatus(ctx, *record)
	logger.Info("order created", "id", localID, "amount", amount, "currency", currency)
	return &res, nil
}

// VerifyPayment checks the gateway callback and moves the order to paid.
// The signature is checked only when the full triple is supplied and a
// gateway secret is configured; otherwise the call is accepted as-is (demo
// flow). Verification never moves an order backwards, and re-verifying a
// paid order does not spawn a second delivery run.
func (s *OrdersService) VerifyPayment(ctx context.Context, orderID, gwOrderID, paymentID, signature string) error {
	if _, ok := s.store.Get(orderID); !ok {
		return domain.ErrOrderNotFound
	}

	if s.gwSecret != "" && gwOrderID != "" && paymentID != "" && signature != "" {
		if !gateway.VerifySignature(s.gwSecret, gwOrderID, paymentID, signature) {
			logger.Warn("payment signature mismatch", "id", orderID)
			return domain.ErrInvalidSignature
		}
	}

	var snapshot domain.Order
	transitioned := false
	s.store.Update(orderID, func(o *domain.Order) {
		if o.Status == domain.StatusCreated {
			o.Status = domain.StatusPaid
			transitioned = true
		}
		snapshot = *o
	})
	if transitioned {
		s.producer.PublishStatus(ctx, snapshot)
		logger.Info("order paid", "id", orderID)
	}

	s.sim.Start(orderID)
	return nil
}

// OrderStatus is the polling read path; a single store lookup, no side
// effects.
func (s *OrdersService) OrderStatus(orderID string) (domain.Order, error) {
	o, ok := s.store.Get(orderID)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}
