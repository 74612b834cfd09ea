// Package views renders the dashboard page and formats figures for display.
package views

import (
	"embed"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/service/notify"
)

// CurrencySuffix follows every money figure (franc CFA).
const CurrencySuffix = " F"

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.French)

// FormatMoney renders an amount with French digit grouping and no decimals,
// e.g. 14000 becomes "14 000 F".
func FormatMoney(amount float64) string {
	return printer.Sprint(number.Decimal(models.Round(amount), number.MaxFractionDigits(0))) + CurrencySuffix
}

// FormatCount renders an item count with French digit grouping.
func FormatCount(n int) string {
	return printer.Sprint(number.Decimal(n))
}

// Badge is one product quantity shown in the order table.
type Badge struct {
	Label    string
	Quantity int
}

// Badges lists the non-zero quantities of an order.
func Badges(in models.OrderInput) []Badge {
	var out []Badge
	if in.QtyFan > 0 {
		out = append(out, Badge{Label: "Ev", Quantity: in.QtyFan})
	}
	if in.QtySmallBag > 0 {
		out = append(out, Badge{Label: "P.Sac", Quantity: in.QtySmallBag})
	}
	if in.QtyLargeBag > 0 {
		out = append(out, Badge{Label: "G.Sac", Quantity: in.QtyLargeBag})
	}
	return out
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"money":  FormatMoney,
		"count":  FormatCount,
		"badges": Badges,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// Dashboard is the data rendered by dashboard.html.
type Dashboard struct {
	Title         string
	Today         string
	Stats         models.Stats
	Orders        []models.Order
	Series        []models.ProfitPoint
	Toasts        []notify.Toast
	Confirmations []notify.Confirmation
	Pricing       models.PricingParameters
	Stale         bool
}
