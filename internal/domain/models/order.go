package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format orders are recorded and sorted with.
const DateLayout = "2006-01-02"

// Upper bounds for a single order quantity and a single expense.
const (
	MaxQuantity = 100_000
	MaxAmount   = 1e9
)

// ErrInvalidOrder indicates the submitted order fields failed boundary validation.
var ErrInvalidOrder = errors.New("invalid order")

// OrderInput captures the raw fields typed into the sales form.
type OrderInput struct {
	Date     string `json:"date" form:"date" bson:"date"`
	Client   string `json:"client" form:"client" bson:"client"`
	Contact  string `json:"contact" form:"contact" bson:"contact"`
	Location string `json:"location" form:"location" bson:"location"`

	QtyFan      int `json:"qty_fan" form:"qty_fan" bson:"qty_fan"`
	QtySmallBag int `json:"qty_sm_sac" form:"qty_sm_sac" bson:"qty_sm_sac"`
	QtyLargeBag int `json:"qty_lg_sac" form:"qty_lg_sac" bson:"qty_lg_sac"`

	Transport float64 `json:"transport" form:"transport" bson:"transport"`
	Packaging float64 `json:"packaging" form:"packaging" bson:"packaging"`
	Marketing float64 `json:"marketing" form:"marketing" bson:"marketing"`
	Financial float64 `json:"financial" form:"financial" bson:"financial"`
	Delivery  float64 `json:"delivery" form:"delivery" bson:"delivery"`
	Loss      float64 `json:"loss" form:"loss" bson:"loss"`
}

// TotalItems is the number of articles across the three product lines.
func (in OrderInput) TotalItems() int {
	return in.QtyFan + in.QtySmallBag + in.QtyLargeBag
}

// RealExpenses sums the six expenses recorded by hand.
func (in OrderInput) RealExpenses() float64 {
	return in.Transport + in.Packaging + in.Marketing + in.Financial + in.Delivery + in.Loss
}

// Normalize trims the text fields.
func (in OrderInput) Normalize() OrderInput {
	in.Date = strings.TrimSpace(in.Date)
	in.Client = strings.TrimSpace(in.Client)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Location = strings.TrimSpace(in.Location)
	return in
}

// Validate enforces the form contract: date and client are required and no
// quantity or expense may be negative, non-finite or above its bound.
func (in OrderInput) Validate() error {
	in = in.Normalize()

	if in.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidOrder)
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date %q must use the YYYY-MM-DD format", ErrInvalidOrder, in.Date)
	}
	if in.Client == "" {
		return fmt.Errorf("%w: client is required", ErrInvalidOrder)
	}

	quantities := []struct {
		name  string
		value int
	}{
		{"qty_fan", in.QtyFan},
		{"qty_sm_sac", in.QtySmallBag},
		{"qty_lg_sac", in.QtyLargeBag},
	}
	for _, q := range quantities {
		if q.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidOrder, q.name)
		}
		if q.value > MaxQuantity {
			return fmt.Errorf("%w: %s must not exceed %d", ErrInvalidOrder, q.name, MaxQuantity)
		}
	}

	expenses := []struct {
		name  string
		value float64
	}{
		{"transport", in.Transport},
		{"packaging", in.Packaging},
		{"marketing", in.Marketing},
		{"financial", in.Financial},
		{"delivery", in.Delivery},
		{"loss", in.Loss},
	}
	for _, e := range expenses {
		if math.IsNaN(e.value) || math.IsInf(e.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidOrder, e.name)
		}
		if e.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidOrder, e.name)
		}
		if e.value > MaxAmount {
			return fmt.Errorf("%w: %s must not exceed %.0f", ErrInvalidOrder, e.name, MaxAmount)
		}
	}

	return nil
}

// Financials groups the figures derived from an OrderInput.
type Financials struct {
	TotalRevenue float64 `json:"total_revenue" bson:"total_revenue"`
	TotalExpense float64 `json:"total_expense" bson:"total_expense"`
	NetProfit    float64 `json:"net_profit" bson:"net_profit"`
}

// Finite reports whether every figure is a real number.
func (f Financials) Finite() bool {
	for _, v := range []float64{f.TotalRevenue, f.TotalExpense, f.NetProfit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Order is a persisted sale. Derived fields are computed once, before insertion.
type Order struct {
	ID string `json:"id" bson:"-"`

	OrderInput `bson:",inline"`
	Financials `bson:",inline"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Stats are the dashboard KPIs computed over the whole order collection.
type Stats struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
	TotalItems   int     `json:"total_items"`
}

// ProfitPoint is one point of the profit-over-time chart.
type ProfitPoint struct {
	Date      string  `json:"date"`
	NetProfit float64 `json:"net_profit"`
}
