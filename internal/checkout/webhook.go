package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
)

// OrderWriter is the slice of the order service the finalizer needs.
type OrderWriter interface {
	CreateOrder(order db.Order) error
	OrderExists(id string) (bool, error)
}

// Finalizer turns a completed checkout session into a durable Order. The
// order id equals the session id; that value equality is the only linkage
// between the two records.
type Finalizer struct {
	Sessions SessionStore
	Orders   OrderWriter
	Logger   *logger.Logger
}

func NewFinalizer(sessions SessionStore, orders OrderWriter, log *logger.Logger) *Finalizer {
	return &Finalizer{Sessions: sessions, Orders: orders, Logger: log}
}

// Finalize is idempotent: a session already converted to an order is a no-op,
// which makes webhook redelivery safe.
func (f *Finalizer) Finalize(ctx context.Context, sessionID string) error {
	exists, err := f.Orders.OrderExists(sessionID)
	if err != nil {
		return fmt.Errorf("failed to check for existing order %s: %w", sessionID, err)
	}
	if exists {
		f.Logger.LogOrder("FINALIZE", sessionID, "order already exists, skipping")
		return nil
	}

	session, err := f.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	order := db.Order{
		OrderID:            session.SessionID,
		Status:             "pending",
		ProgressPercentage: 0,
		AccountNames:       session.AccountNames,
		CreatedAt:          time.Now(),
	}
	if err := f.Orders.CreateOrder(order); err != nil {
		return err
	}

	if err := f.Sessions.Delete(ctx, sessionID); err != nil {
		f.Logger.Warn("CHECKOUT", fmt.Sprintf("failed to delete consumed session %s, TTL will reap it: %v", sessionID, err))
	}

	f.Logger.LogOrder("FINALIZE", sessionID, "checkout session finalized into order")
	return nil
}

const maxWebhookBody = 65536

// WebhookHandler receives Stripe events and routes completed checkouts to the
// finalizer.
type WebhookHandler struct {
	Finalizer     *Finalizer
	WebhookSecret string
	Logger        *logger.Logger
}

func NewWebhookHandler(finalizer *Finalizer, webhookSecret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{Finalizer: finalizer, WebhookSecret: webhookSecret, Logger: log}
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.Logger.Error("WEBHOOK", fmt.Sprintf("failed to read webhook body: %v", err))
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.WebhookSecret, opts)
	if err != nil {
		h.Logger.LogAuth("WEBHOOK_SIGNATURE", fmt.Sprintf("rejected webhook: %v", err))
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			h.Logger.Error("WEBHOOK", fmt.Sprintf("failed to parse checkout session payload: %v", err))
			http.Error(w, "invalid event payload", http.StatusBadRequest)
			return
		}

		if err := h.Finalizer.Finalize(r.Context(), session.ID); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				// Staging record already expired; acknowledge so Stripe
				// stops redelivering an event we can no longer act on.
				h.Logger.Warn("WEBHOOK", fmt.Sprintf("no staging session for %s, acknowledging", session.ID))
				w.WriteHeader(http.StatusOK)
				return
			}
			h.Logger.Error("WEBHOOK", fmt.Sprintf("failed to finalize session %s: %v", session.ID, err))
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
	default:
		h.Logger.Debug("WEBHOOK", fmt.Sprintf("ignoring event type %s", event.Type))
	}

	w.WriteHeader(http.StatusOK)
}
