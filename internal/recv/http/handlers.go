// Package recvhttp serves the receivables dashboard and its JSON
// endpoints. Every request computes summary and drill-down views from
// one snapshot, so the figures a page shows always reconcile.
package recvhttp

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
	"github.com/Arooma21/Odoo-Dashboard/internal/ledger"
	"github.com/Arooma21/Odoo-Dashboard/internal/platform/httpx"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv/export"
	recvsvg "github.com/Arooma21/Odoo-Dashboard/internal/recv/svg"
	"github.com/Arooma21/Odoo-Dashboard/internal/view"
)

const (
	chartWidth     = 720
	chartHeight    = 240
	requestTimeout = 10 * time.Second
)

// Service exposes the report operations required by the handler.
type Service interface {
	Summary(ctx context.Context) (recv.SummaryReport, error)
	CustomerDetail(ctx context.Context, ref aging.CustomerRef, bucket string) (recv.DetailReport, error)
	BucketDetail(ctx context.Context, bucket string) (recv.DetailReport, error)
}

type chartFunc func(width, height int, values []float64, labels []string) (template.HTML, error)

// Handler serves receivables aging endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	templates *view.Engine
	chart     chartFunc
	validate  *validator.Validate
}

// NewHandler constructs the receivables HTTP handler.
func NewHandler(logger *slog.Logger, service Service, templates *view.Engine) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		chart: func(width, height int, values []float64, labels []string) (template.HTML, error) {
			return recvsvg.Bars(width, height, values, labels, recvsvg.BarOpts{
				Title:       "Receivables by aging bucket",
				Description: "Open balance per aging bucket across all customers",
			})
		},
		validate: validator.New(),
	}
}

type detailQuery struct {
	Code   string `validate:"omitempty,max=24"`
	Name   string `validate:"omitempty,max=120"`
	Bucket string `validate:"omitempty,max=16"`
}

// handleAgingJSON returns the per-customer summary plus grand totals.
func (h *Handler) handleAgingJSON(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Summary(ctx)
	if err != nil {
		h.respondJSONError(w, "load aging summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// handleCustomerJSON returns the drill-down rows for one customer and
// bucket. A request without a customer reference yields an empty row
// set, never an error; an unknown bucket token narrows to d0_30.
func (h *Handler) handleCustomerJSON(w http.ResponseWriter, r *http.Request) {
	q := detailQuery{
		Code:   strings.TrimSpace(r.URL.Query().Get("code")),
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Bucket: strings.TrimSpace(r.URL.Query().Get("bucket")),
	}
	if err := h.validate.Struct(q); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer filter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.CustomerDetail(ctx, aging.CustomerRef{Code: q.Code, Name: q.Name}, q.Bucket)
	if err != nil {
		h.respondJSONError(w, "load customer detail", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// handleBucketJSON returns the whole-bucket drill-down.
func (h *Handler) handleBucketJSON(w http.ResponseWriter, r *http.Request) {
	h.bucketJSON(w, r, r.URL.Query().Get("bucket"))
}

// handleBucketJSONPath is the path-addressed variant of the bucket
// drill-down, mirroring the HTML page URL.
func (h *Handler) handleBucketJSONPath(w http.ResponseWriter, r *http.Request) {
	h.bucketJSON(w, r, chi.URLParam(r, "bucket"))
}

func (h *Handler) bucketJSON(w http.ResponseWriter, r *http.Request, bucket string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.BucketDetail(ctx, bucket)
	if err != nil {
		h.respondJSONError(w, "load bucket detail", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// handleCSV streams the summary as a CSV download.
func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Summary(ctx)
	if err != nil {
		h.respondJSONError(w, "export aging summary", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="aging_`+report.AsOf.Format("2006-01-02")+`.csv"`)
	if err := export.WriteSummaryCSV(w, report); err != nil {
		h.logger.Error("write aging csv", slog.Any("error", err))
	}
}

type bucketCard struct {
	Key   string
	Label string
	Total float64
}

type dashboardViewModel struct {
	AsOf       time.Time
	SnapshotID string
	Rows       []recv.SummaryRow
	Totals     recv.BucketTotals
	Cards      []bucketCard
	Chart      template.HTML
}

// handleDashboard renders the live receivables page.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Summary(ctx)
	if err != nil {
		h.respondPageError(w, "load dashboard", err)
		return
	}

	vm := dashboardViewModel{
		AsOf:       report.AsOf,
		SnapshotID: report.SnapshotID,
		Rows:       report.Rows,
		Totals:     report.Totals,
	}
	values := make([]float64, 0, len(aging.AllBuckets))
	labels := make([]string, 0, len(aging.AllBuckets))
	for _, b := range aging.AllBuckets {
		total := bucketTotal(report.Totals, b)
		vm.Cards = append(vm.Cards, bucketCard{Key: string(b), Label: b.Label(), Total: total})
		values = append(values, total)
		labels = append(labels, b.Label())
	}
	if vm.Chart, err = h.chart(chartWidth, chartHeight, values, labels); err != nil {
		h.respondPageError(w, "render chart", err)
		return
	}

	h.render(w, r, "pages/recv_dashboard.html", "Receivables Dashboard", vm)
}

type bucketViewModel struct {
	AsOf     time.Time
	Bucket   string
	Label    string
	Rows     []recv.DetailRow
	Subtotal float64
}

// handleBucketPage renders all open items for one bucket.
func (h *Handler) handleBucketPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.BucketDetail(ctx, chi.URLParam(r, "bucket"))
	if err != nil {
		h.respondPageError(w, "load bucket page", err)
		return
	}

	h.render(w, r, "pages/recv_bucket.html", "Receivables Bucket", bucketViewModel{
		AsOf:     report.AsOf,
		Bucket:   string(report.Bucket),
		Label:    report.Bucket.Label(),
		Rows:     report.Rows,
		Subtotal: report.Subtotal,
	})
}

func bucketTotal(t recv.BucketTotals, b aging.Bucket) float64 {
	switch b {
	case aging.BucketCurrent:
		return t.Current
	case aging.BucketD0_30:
		return t.D0_30
	case aging.BucketD31_60:
		return t.D31_60
	case aging.BucketD61_90:
		return t.D61_90
	case aging.BucketD90Plus:
		return t.D90Plus
	default:
		return 0
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.templates.Render(w, name, view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Data:        data,
	})
	if err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
	}
}

// respondJSONError distinguishes an unreachable ledger from an empty
// one: the former is a 503 problem, never a zero-row report.
func (h *Handler) respondJSONError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	if errors.Is(err, ledger.ErrSourceUnavailable) {
		httpx.Problem(w, http.StatusServiceUnavailable, "Source Unavailable", "ledger data source unavailable")
		return
	}
	httpx.RespondError(w, err)
}

func (h *Handler) respondPageError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	if errors.Is(err, ledger.ErrSourceUnavailable) {
		http.Error(w, "Ledger data source unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
