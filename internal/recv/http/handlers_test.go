package recvhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
	"github.com/Arooma21/Odoo-Dashboard/internal/ledger"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
	"github.com/Arooma21/Odoo-Dashboard/internal/view"
)

var testAsOf = time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

type stubService struct {
	summary    recv.SummaryReport
	detail     recv.DetailReport
	err        error
	lastRef    aging.CustomerRef
	lastBucket string
}

func (s *stubService) Summary(context.Context) (recv.SummaryReport, error) {
	return s.summary, s.err
}

func (s *stubService) CustomerDetail(_ context.Context, ref aging.CustomerRef, bucket string) (recv.DetailReport, error) {
	s.lastRef = ref
	s.lastBucket = bucket
	return s.detail, s.err
}

func (s *stubService) BucketDetail(_ context.Context, bucket string) (recv.DetailReport, error) {
	s.lastBucket = bucket
	return s.detail, s.err
}

func newTestRouter(t *testing.T, svc Service) chi.Router {
	t.Helper()
	engine, err := view.NewEngine(3)
	require.NoError(t, err)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, engine)
	r := chi.NewRouter()
	r.Route("/recv", h.MountRoutes)
	return r
}

func sampleSummary() recv.SummaryReport {
	return recv.SummaryReport{
		SnapshotID: "snap-1",
		AsOf:       testAsOf,
		Rows: []recv.SummaryRow{
			{CustomerCode: "A100", CustomerName: "Acme", D0_30: 500.5, Total: 500.5},
			{CustomerCode: "B200", CustomerName: "Blue Rock", D90Plus: 75, Total: 75},
		},
		Totals: recv.BucketTotals{D0_30: 500.5, D90Plus: 75, Total: 575.5},
	}
}

func TestAgingJSONReturnsSummary(t *testing.T) {
	svc := &stubService{summary: sampleSummary()}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/aging", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var got recv.SummaryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "snap-1", got.SnapshotID)
	require.Len(t, got.Rows, 2)
	require.Equal(t, "A100", got.Rows[0].CustomerCode)
	require.InDelta(t, 575.5, got.Totals.Total, 1e-9)
}

func TestCustomerDetailPassesFiltersThrough(t *testing.T) {
	svc := &stubService{detail: recv.DetailReport{SnapshotID: "snap-1", AsOf: testAsOf, Bucket: aging.BucketD31_60}}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/aging/customer?code=A100&bucket=d31_60", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "A100", svc.lastRef.Code)
	require.Equal(t, "d31_60", svc.lastBucket)
}

func TestCustomerDetailWithoutReferenceIsEmptyNotError(t *testing.T) {
	svc := &stubService{detail: recv.DetailReport{SnapshotID: "snap-1", AsOf: testAsOf, Bucket: aging.BucketD0_30}}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/aging/customer?bucket=d0_30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got recv.DetailReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Empty(t, got.Rows)
}

func TestBucketJSONPathVariant(t *testing.T) {
	svc := &stubService{detail: recv.DetailReport{SnapshotID: "snap-1", AsOf: testAsOf, Bucket: aging.BucketD90Plus}}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/bucket/d90p.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Equal(t, "d90p", svc.lastBucket)
}

func TestCustomerDetailRejectsOversizedFilter(t *testing.T) {
	r := newTestRouter(t, &stubService{})

	rec := httptest.NewRecorder()
	code := strings.Repeat("X", 64)
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/aging/customer?code="+code, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceUnavailableIs503(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: dial tcp: refused", ledger.ErrSourceUnavailable)}
	r := newTestRouter(t, svc)

	for _, path := range []string{"/recv/aging", "/recv/aging/customer?code=A100", "/recv/aging/bucket?bucket=d90p"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/dashboard", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboardRendersCardsAndChart(t *testing.T) {
	svc := &stubService{summary: sampleSummary()}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.Contains(t, body, "<svg")
	require.Contains(t, body, "Over 90 Days")
	require.Contains(t, body, "A100")
	require.Contains(t, body, "/recv/bucket/d90p")
}

func TestBucketPageRendersDetailRows(t *testing.T) {
	svc := &stubService{detail: recv.DetailReport{
		SnapshotID: "snap-1",
		AsOf:       testAsOf,
		Bucket:     aging.BucketD61_90,
		Rows: []recv.DetailRow{
			{CustomerCode: "A100", CustomerName: "Acme", ItemID: "IN-77", DueDate: "2026-06-01", Amount: 120.25},
		},
		Subtotal: 120.25,
	}}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/bucket/d61_90", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "d61_90", svc.lastBucket)
	body := rec.Body.String()
	require.Contains(t, body, "IN-77")
	require.Contains(t, body, "61-90 Days")
}

func TestCSVExportSetsDownloadHeaders(t *testing.T) {
	svc := &stubService{summary: sampleSummary()}
	r := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recv/aging/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Header().Get("Content-Disposition"), "aging_2026-08-15.csv")
	require.Contains(t, rec.Body.String(), "Customer Code")
	require.Contains(t, rec.Body.String(), "A100")
}
