package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// Webhook event types sent by the payment provider.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventSubscriptionCanceled = "subscription.canceled"
)

var ErrCheckoutDisabled = errors.New("checkout is not configured")

// CheckoutConfig holds the payment provider redirect settings.
type CheckoutConfig struct {
	URL        string
	SuccessURL string
	CancelURL  string
}

// CheckoutURL builds the provider redirect for userID buying tier.
func CheckoutURL(cfg CheckoutConfig, userID string, tier models.PlanTier) (string, error) {
	if cfg.URL == "" {
		return "", ErrCheckoutDisabled
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}
	q := u.Query()
	q.Set("user_id", userID)
	q.Set("plan", string(tier))
	if cfg.SuccessURL != "" {
		q.Set("success_url", cfg.SuccessURL)
	}
	if cfg.CancelURL != "" {
		q.Set("cancel_url", cfg.CancelURL)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
