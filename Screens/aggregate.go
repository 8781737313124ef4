package Screens

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"Prapatti/Models"
)

// CompanyGroup sums the orders of one company.
type CompanyGroup struct {
	Company  string
	Orders   []Models.Order
	Qty      decimal.Decimal
	Amount   decimal.Decimal
	Count    int
	Expanded bool
}

// GroupByCompany reduces orders into one group per company, in the order
// each company first appears.
func GroupByCompany(orders []Models.Order) []CompanyGroup {
	var groups []CompanyGroup
	index := map[string]int{}
	for _, order := range orders {
		i, ok := index[order.Company]
		if !ok {
			i = len(groups)
			index[order.Company] = i
			groups = append(groups, CompanyGroup{Company: order.Company, Qty: decimal.Zero, Amount: decimal.Zero})
		}
		g := &groups[i]
		g.Orders = append(g.Orders, order)
		g.Qty = g.Qty.Add(decimal.NewFromFloat(order.Qty))
		g.Amount = g.Amount.Add(order.Total())
		g.Count++
	}
	return groups
}

const (
	ViewAll       = "all"
	ViewByCompany = "company"
)

// OrderLayout is the order screen's choice between the flat table and the
// per-company groups, plus which groups are open.
type OrderLayout struct {
	mu       sync.Mutex
	mode     string
	expanded map[string]bool
}

func NewOrderLayout() *OrderLayout {
	return &OrderLayout{mode: ViewAll, expanded: map[string]bool{}}
}

func (l *OrderLayout) SetMode(mode string) {
	if mode != ViewByCompany {
		mode = ViewAll
	}
	l.mu.Lock()
	l.mode = mode
	l.mu.Unlock()
}

func (l *OrderLayout) Mode() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Toggle flips one group without touching the others.
func (l *OrderLayout) Toggle(company string) {
	l.mu.Lock()
	l.expanded[company] = !l.expanded[company]
	l.mu.Unlock()
}

func (l *OrderLayout) Groups(orders []Models.Order) []CompanyGroup {
	groups := GroupByCompany(orders)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range groups {
		groups[i].Expanded = l.expanded[groups[i].Company]
	}
	return groups
}

func (l *OrderLayout) Reset() {
	l.mu.Lock()
	l.mode = ViewAll
	l.expanded = map[string]bool{}
	l.mu.Unlock()
}

// HighReturnThreshold is the returned quantity over the window that puts a
// product on the alert list.
var HighReturnThreshold = decimal.NewFromInt(50)

const highReturnWindow = 30 * 24 * time.Hour

// ProductReturns summarises the recent returns of one product.
type ProductReturns struct {
	Product   string
	Qty       decimal.Decimal
	Count     int
	Amount    decimal.Decimal
	Companies []string
	Reasons   map[string]int
	TopReason string
}

// HighReturnProducts lists products whose returns dated within the 30 days
// before now add up to the threshold, largest first.
func HighReturnProducts(returns []Models.ReturnOrder, now time.Time) []ProductReturns {
	since := now.Add(-highReturnWindow)

	var products []*ProductReturns
	index := map[string]*ProductReturns{}
	reasonOrder := map[string][]string{}
	for _, r := range returns {
		day, ok := ParseDayMonthYear(r.Date)
		if !ok {
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		if at.Before(since) || at.After(now) {
			continue
		}

		p, seen := index[r.Product]
		if !seen {
			p = &ProductReturns{Product: r.Product, Qty: decimal.Zero, Amount: decimal.Zero, Reasons: map[string]int{}}
			index[r.Product] = p
			products = append(products, p)
		}
		p.Qty = p.Qty.Add(decimal.NewFromFloat(r.Qty))
		p.Amount = p.Amount.Add(r.Total())
		p.Count++
		if !slices.Contains(p.Companies, r.Company) {
			p.Companies = append(p.Companies, r.Company)
		}
		if p.Reasons[r.ReturnReason] == 0 {
			reasonOrder[r.Product] = append(reasonOrder[r.Product], r.ReturnReason)
		}
		p.Reasons[r.ReturnReason]++
	}

	var out []ProductReturns
	for _, p := range products {
		if p.Qty.LessThan(HighReturnThreshold) {
			continue
		}
		for _, reason := range reasonOrder[p.Product] {
			if p.TopReason == "" || p.Reasons[reason] > p.Reasons[p.TopReason] {
				p.TopReason = reason
			}
		}
		out = append(out, *p)
	}
	slices.SortStableFunc(out, func(a, b ProductReturns) int {
		return b.Qty.Cmp(a.Qty)
	})
	return out
}
