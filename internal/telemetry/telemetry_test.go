package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRPC("/financezz.v1.DebtService/CreateDebt", "ok", 20*time.Millisecond)
	m.RecurringExecuted(3)
	m.RecurringSkipped("plan_limit")
	m.WorkerPass(true, 2, 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		`financezz_rpc_requests_total{code="ok",procedure="/financezz.v1.DebtService/CreateDebt"} 1`,
		`financezz_recurring_executed_total 3`,
		`financezz_recurring_skipped_total{reason="plan_limit"} 1`,
		`financezz_worker_passes_total{result="ok"} 1`,
		`financezz_debts_marked_overdue_total 2`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSentryDisabled(t *testing.T) {
	flush, err := InitSentry("", "test")
	if err != nil {
		t.Fatalf("InitSentry failed: %v", err)
	}
	flush()
	// must not panic without a client
	CaptureError(context.Background(), errors.New("boom"), map[string]string{"procedure": "x"})
}
