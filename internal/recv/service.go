// Package recv builds receivables aging reports on top of the aging
// engine. A report is always computed from one ledger snapshot and one
// as-of instant, so the dashboard summary and every drill-down behind
// it reconcile even when requests interleave with ledger refreshes.
package recv

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
	"github.com/Arooma21/Odoo-Dashboard/internal/ledger"
)

// SourcePort fetches open items from the external ledger.
type SourcePort interface {
	FetchOpenItems(ctx context.Context) ([]aging.OpenItem, error)
}

// Snapshot is one fetched open-item set pinned to an as-of instant.
// Every view of one report derives from the same snapshot.
type Snapshot struct {
	ID    string           `json:"id"`
	AsOf  time.Time        `json:"as_of"`
	Items []aging.OpenItem `json:"items"`
}

// Service prepares aging reports from ledger snapshots.
type Service struct {
	source    SourcePort
	cache     *Cache
	logger    *slog.Logger
	precision int
	now       func() time.Time
}

// NewService constructs a Service. Cache may be nil; precision is the
// deployment's display precision (2 or 3 decimals).
func NewService(source SourcePort, cache *Cache, logger *slog.Logger, precision int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if precision != 2 && precision != 3 {
		precision = 3
	}
	return &Service{
		source:    source,
		cache:     cache,
		logger:    logger,
		precision: precision,
		now:       time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CurrentSnapshot returns the cached snapshot, fetching from the ledger
// on a miss. Cache infrastructure failures degrade to a direct fetch;
// ledger failures propagate as ledger.ErrSourceUnavailable so callers
// never mistake an unreachable ledger for a fully paid book.
func (s *Service) CurrentSnapshot(ctx context.Context) (Snapshot, error) {
	if s.cache == nil {
		return s.fetchSnapshot(ctx)
	}
	key, err := s.cache.BuildKey(ctx, "snapshot")
	if err != nil {
		s.logger.Warn("snapshot cache key", slog.Any("error", err))
		return s.fetchSnapshot(ctx)
	}
	var snap Snapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (any, error) {
		return s.fetchSnapshot(ctx)
	})
	if err != nil {
		if errors.Is(err, ledger.ErrSourceUnavailable) {
			return Snapshot{}, err
		}
		s.logger.Warn("snapshot cache read", slog.Any("error", err))
		return s.fetchSnapshot(ctx)
	}
	return snap, nil
}

// RefreshSnapshot bypasses the cache, fetches a fresh snapshot, bumps
// the cache version so stale entries stop being served, and stores the
// new snapshot under the bumped key. Used by the warmup job.
func (s *Service) RefreshSnapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if s.cache != nil {
		err := s.cache.Bump(ctx)
		if err == nil {
			var key string
			if key, err = s.cache.BuildKey(ctx, "snapshot"); err == nil {
				err = s.cache.StoreJSON(ctx, key, snap)
			}
		}
		if err != nil {
			s.logger.Warn("snapshot cache store", slog.Any("error", err))
		}
	}
	return snap, nil
}

func (s *Service) fetchSnapshot(ctx context.Context) (Snapshot, error) {
	items, err := s.source.FetchOpenItems(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:    uuid.NewString(),
		AsOf:  s.now().UTC(),
		Items: items,
	}, nil
}

// Summary computes the per-customer aging report plus grand totals.
func (s *Service) Summary(ctx context.Context) (SummaryReport, error) {
	snap, err := s.CurrentSnapshot(ctx)
	if err != nil {
		return SummaryReport{}, err
	}
	return s.buildSummary(snap), nil
}

func (s *Service) buildSummary(snap Snapshot) SummaryReport {
	summaries := aging.Summarize(snap.Items, snap.AsOf)
	report := SummaryReport{
		SnapshotID: snap.ID,
		AsOf:       snap.AsOf,
		Rows:       make([]SummaryRow, 0, len(summaries)),
	}
	for _, row := range summaries {
		name := row.CustomerName
		if name == "" {
			name = row.CustomerCode
		}
		report.Rows = append(report.Rows, SummaryRow{
			CustomerCode: row.CustomerCode,
			CustomerName: name,
			Current:      s.round(row.Current),
			D0_30:        s.round(row.D0_30),
			D31_60:       s.round(row.D31_60),
			D61_90:       s.round(row.D61_90),
			D90Plus:      s.round(row.D90Plus),
			Total:        s.round(row.Total),
		})
		report.Totals.Current += row.Current
		report.Totals.D0_30 += row.D0_30
		report.Totals.D31_60 += row.D31_60
		report.Totals.D61_90 += row.D61_90
		report.Totals.D90Plus += row.D90Plus
		report.Totals.Total += row.Total
	}
	report.Totals = BucketTotals{
		Current: s.round(report.Totals.Current),
		D0_30:   s.round(report.Totals.D0_30),
		D31_60:  s.round(report.Totals.D31_60),
		D61_90:  s.round(report.Totals.D61_90),
		D90Plus: s.round(report.Totals.D90Plus),
		Total:   s.round(report.Totals.Total),
	}
	return report
}

// CustomerDetail lists the open items behind one customer+bucket cell.
// Unknown bucket tokens normalise to d0_30 rather than failing.
func (s *Service) CustomerDetail(ctx context.Context, ref aging.CustomerRef, bucketRaw string) (DetailReport, error) {
	snap, err := s.CurrentSnapshot(ctx)
	if err != nil {
		return DetailReport{}, err
	}
	bucket := aging.ParseBucket(bucketRaw)
	rows := aging.Detail(snap.Items, ref, bucket, snap.AsOf)
	return s.buildDetail(snap, bucket, rows), nil
}

// BucketDetail lists every open item in one bucket, restricted to the
// customers the summary retains.
func (s *Service) BucketDetail(ctx context.Context, bucketRaw string) (DetailReport, error) {
	snap, err := s.CurrentSnapshot(ctx)
	if err != nil {
		return DetailReport{}, err
	}
	bucket := aging.ParseBucket(bucketRaw)
	rows := aging.DetailForBucket(snap.Items, bucket, snap.AsOf)
	return s.buildDetail(snap, bucket, rows), nil
}

func (s *Service) buildDetail(snap Snapshot, bucket aging.Bucket, rows []aging.DetailRow) DetailReport {
	report := DetailReport{
		SnapshotID: snap.ID,
		AsOf:       snap.AsOf,
		Bucket:     bucket,
		Rows:       make([]DetailRow, 0, len(rows)),
	}
	var subtotal float64
	for _, row := range rows {
		name := row.CustomerName
		if name == "" {
			name = row.CustomerCode
		}
		dueDate := ""
		if !row.DueDate.IsZero() {
			dueDate = row.DueDate.Format("2006-01-02")
		}
		report.Rows = append(report.Rows, DetailRow{
			CustomerCode: row.CustomerCode,
			CustomerName: name,
			ItemID:       row.ItemID,
			DueDate:      dueDate,
			OrderRef:     row.OrderRef,
			PORef:        row.PORef,
			Description:  row.Description,
			Amount:       s.round(row.Amount),
		})
		subtotal += row.Amount
	}
	report.Subtotal = s.round(subtotal)
	return report
}

func (s *Service) round(v float64) float64 {
	p := math.Pow10(s.precision)
	return math.Round(v*p) / p
}

// Precision exposes the configured display precision.
func (s *Service) Precision() int {
	return s.precision
}
