package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

// BillingService implements the BillingService RPC interface.
type BillingService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	checkout billing.CheckoutConfig
	logger   *slog.Logger
}

func NewBillingService(store storage.Store, enforcer *billing.Enforcer, checkout billing.CheckoutConfig, logger *slog.Logger) *BillingService {
	return &BillingService{store: store, enforcer: enforcer, checkout: checkout, logger: logger}
}

func (s *BillingService) ListPlans(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListPlansResponse], error) {
	plans := s.enforcer.Catalog().Plans()
	resp := &api.ListPlansResponse{Plans: make([]*api.Plan, 0, len(plans))}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, toAPIPlan(p))
	}
	return connect.NewResponse(resp), nil
}

// GetUsage reports this month's usage against the caller's effective plan.
func (s *BillingService) GetUsage(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.GetUsageResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	report, err := s.enforcer.Usage(ctx, user)
	if err != nil {
		s.logger.Error("GetUsage failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.GetUsageResponse{
		Tier:          string(report.Tier),
		Period:        report.Period,
		PlanExpiresAt: user.PlanExpiresAt,
		Resources:     make([]api.ResourceUsage, 0, len(report.Resources)),
	}
	for _, r := range report.Resources {
		resp.Resources = append(resp.Resources, api.ResourceUsage{Resource: string(r.Resource), Used: r.Used, Limit: r.Limit})
	}
	return connect.NewResponse(resp), nil
}

// CreateCheckout returns the payment provider URL for upgrading to a paid plan.
func (s *BillingService) CreateCheckout(ctx context.Context, req *connect.Request[api.CreateCheckoutRequest]) (*connect.Response[api.CreateCheckoutResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateCheckout request received", "user_id", user.ID, "plan", req.Msg.Plan)

	tier := models.PlanTier(req.Msg.Plan)
	if tier == "" {
		tier = models.PlanPremium
	}
	if !tier.Valid() || tier == models.PlanFree {
		return nil, toConnectError(invalidf("plan %q cannot be purchased", req.Msg.Plan))
	}
	url, err := billing.CheckoutURL(s.checkout, user.ID, tier)
	if err != nil {
		s.logger.Warn("CreateCheckout failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, user.ID, "billing.checkout", "user", user.ID, string(tier))
	return connect.NewResponse(&api.CreateCheckoutResponse{URL: url}), nil
}

// CancelSubscription returns the caller to the free plan right away.
func (s *BillingService) CancelSubscription(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.UserResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CancelSubscription request received", "user_id", user.ID)

	if user.Plan == models.PlanFree {
		return nil, toConnectError(invalidf("no active subscription"))
	}
	user.Plan = models.PlanFree
	user.PlanExpiresAt = nil
	user.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("CancelSubscription failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	audit(ctx, s.store, s.logger, user.ID, "billing.cancel", "user", user.ID, "")
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

const maxWebhookBody = 64 << 10

// BillingWebhookHandler receives signed subscription events from the
// payment provider.
type BillingWebhookHandler struct {
	store  storage.Store
	secret string
	period time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewBillingWebhookHandler creates the webhook endpoint. A completed checkout
// extends premium by period.
func NewBillingWebhookHandler(store storage.Store, secret string, period time.Duration, logger *slog.Logger) *BillingWebhookHandler {
	return &BillingWebhookHandler{store: store, secret: secret, period: period, logger: logger, now: time.Now}
}

func (h *BillingWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if !billing.VerifySignature(h.secret, body, r.Header.Get("X-Signature")) {
		h.logger.Warn("Billing webhook rejected", "reason", "bad signature", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event api.BillingWebhook
	if err := json.Unmarshal(body, &event); err != nil || event.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.logger.Info("Billing webhook received", "event", event.Event, "user_id", event.UserID)

	if err := h.apply(r.Context(), &event); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "unknown user", http.StatusNotFound)
		case errors.Is(err, errInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("Billing webhook failed", "event", event.Event, "user_id", event.UserID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillingWebhookHandler) apply(ctx context.Context, event *api.BillingWebhook) error {
	user, err := h.store.GetUserByID(ctx, event.UserID)
	if err != nil {
		return err
	}
	now := h.now()
	switch event.Event {
	case billing.EventCheckoutCompleted:
		from := now
		if user.Plan == models.PlanPremium && user.PlanExpiresAt != nil && *user.PlanExpiresAt > now.Unix() {
			from = time.Unix(*user.PlanExpiresAt, 0)
		}
		expires := from.Add(h.period).Unix()
		user.Plan = models.PlanPremium
		user.PlanExpiresAt = &expires
	case billing.EventSubscriptionCanceled:
		user.Plan = models.PlanFree
		user.PlanExpiresAt = nil
	default:
		return invalidf("unknown event %q", event.Event)
	}
	user.UpdatedAt = now.Unix()
	if err := h.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	audit(ctx, h.store, h.logger, models.SystemActor, "billing."+event.Event, "user", user.ID, string(user.Plan))
	return nil
}
