package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/domain/models"
	repo "github.com/mamadbah2/pagne/internal/repository/sheets"
	"github.com/mamadbah2/pagne/internal/server/views"
	"github.com/mamadbah2/pagne/internal/service/ledger"
)

const (
	ordersSheetRange = "Orders!A:P"
	displayLayout    = "02/01/2006"
)

// ErrExportDisabled is returned by ExportToSheet when no spreadsheet is configured.
var ErrExportDisabled = errors.New("sheet export is not configured")

var sheetHeader = []interface{}{
	"Date", "Client", "Contact", "Lieu",
	"Éventails", "Petits sacs", "Grands sacs",
	"Transport", "Emballage", "Marketing", "Frais financiers", "Livraison", "Pertes",
	"CA", "Dépenses", "Bénéfice",
}

// OrderSource is the ledger view reports are built from.
type OrderSource interface {
	Load(ctx context.Context) error
	Snapshot() ledger.Snapshot
}

// Service builds the periodic summaries pushed outside the dashboard.
type Service struct {
	source OrderSource
	sheets repo.Repository
	logger *zap.Logger
}

// NewService wires a new reporting service instance. sheets may be nil.
func NewService(source OrderSource, sheets repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, sheets: sheets, logger: logger}
}

// WeeklySummary reloads the orders and describes the Monday-based week that
// contains now, followed by the all-time KPIs.
func (s *Service) WeeklySummary(ctx context.Context, now time.Time) (string, error) {
	if err := s.source.Load(ctx); err != nil {
		return "", fmt.Errorf("load orders: %w", err)
	}
	snap := s.source.Snapshot()

	start := mondayStart(now)
	end := start.AddDate(0, 0, 7)

	var week []models.Order
	for _, o := range snap.Orders {
		day, err := time.ParseInLocation(models.DateLayout, o.Date, now.Location())
		if err != nil {
			s.logger.Debug("skip order with invalid date", zap.String("id", o.ID), zap.String("date", o.Date))
			continue
		}
		if day.Before(start) || !day.Before(end) {
			continue
		}
		week = append(week, o)
	}
	weekly := ledger.Aggregate(week)

	var b strings.Builder
	fmt.Fprintf(&b, "Bilan du %s au %s\n",
		start.Format(displayLayout), end.AddDate(0, 0, -1).Format(displayLayout))
	if len(week) == 0 {
		b.WriteString("Aucune vente cette semaine.\n")
	} else {
		fmt.Fprintf(&b, "Ventes : %d (%s articles)\n", len(week), views.FormatCount(weekly.TotalItems))
		fmt.Fprintf(&b, "Chiffre d'affaires : %s\n", views.FormatMoney(weekly.TotalRevenue))
		fmt.Fprintf(&b, "Bénéfice net : %s\n", views.FormatMoney(weekly.TotalProfit))
	}
	fmt.Fprintf(&b, "\nCumul : %s de CA, %s de bénéfice, %s articles",
		views.FormatMoney(snap.Stats.TotalRevenue),
		views.FormatMoney(snap.Stats.TotalProfit),
		views.FormatCount(snap.Stats.TotalItems))

	return b.String(), nil
}

// ExportToSheet overwrites the orders tab with one row per order.
func (s *Service) ExportToSheet(ctx context.Context) (int, error) {
	if s.sheets == nil {
		return 0, ErrExportDisabled
	}

	if err := s.source.Load(ctx); err != nil {
		return 0, fmt.Errorf("load orders: %w", err)
	}
	orders := s.source.Snapshot().Orders

	rows := make([][]interface{}, 0, len(orders)+1)
	rows = append(rows, sheetHeader)
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}

	if err := s.sheets.ReplaceRange(ctx, ordersSheetRange, rows); err != nil {
		return 0, fmt.Errorf("export orders: %w", err)
	}

	s.logger.Info("orders exported to sheet", zap.Int("orders", len(orders)))
	return len(orders), nil
}

func orderRow(o models.Order) []interface{} {
	return []interface{}{
		o.Date, o.Client, o.Contact, o.Location,
		o.QtyFan, o.QtySmallBag, o.QtyLargeBag,
		o.Transport, o.Packaging, o.Marketing, o.Financial, o.Delivery, o.Loss,
		o.TotalRevenue, o.TotalExpense, o.NetProfit,
	}
}

func mondayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
