package Screens

import (
	"github.com/shopspring/decimal"

	"Prapatti/Forms"
)

// Measures are the summed columns of one record.
type Measures struct {
	Qty    decimal.Decimal
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// Totals is the table footer over the filtered list.
type Totals struct {
	Count  int
	Qty    decimal.Decimal
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// View is a copy of the controller state taken for one render.
type View[T any, F any] struct {
	Name        string
	Mode        Mode
	EditingID   string
	Form        F
	FieldErrors Forms.Errors
	Error       string
	Downloading bool
	Criteria    Criteria
	Loaded      bool

	Rows       []T
	Page       int
	TotalPages int
	Pages      []int
	HasPrev    bool
	HasNext    bool
	Totals     Totals
}

func (v View[T, F]) Editing() bool {
	return v.EditingID != ""
}

func (v View[T, F]) Submitting() bool {
	return v.Mode == Submitting
}

func (v View[T, F]) PrevPage() int { return v.Page - 1 }
func (v View[T, F]) NextPage() int { return v.Page + 1 }

// FieldError returns the message under field, or "".
func (v View[T, F]) FieldError(field string) string {
	return v.FieldErrors[field]
}

func (c *Controller[T, F]) View() View[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filtered()
	total := PageCount(len(filtered))
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i + 1
	}

	totals := Totals{Count: len(filtered), Qty: decimal.Zero, Price: decimal.Zero, Amount: decimal.Zero}
	if c.cfg.Measure != nil {
		for _, record := range filtered {
			m := c.cfg.Measure(record)
			totals.Qty = totals.Qty.Add(m.Qty)
			totals.Price = totals.Price.Add(m.Price)
			totals.Amount = totals.Amount.Add(m.Amount)
		}
	}

	fieldErrors := make(Forms.Errors, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		fieldErrors[k] = v
	}

	return View[T, F]{
		Name:        c.cfg.Name,
		Mode:        c.mode,
		EditingID:   c.editingID,
		Form:        c.form,
		FieldErrors: fieldErrors,
		Error:       c.err,
		Downloading: c.downloading,
		Criteria:    c.criteria,
		Loaded:      c.loaded,
		Rows:        PageOf(filtered, c.page),
		Page:        c.page,
		TotalPages:  total,
		Pages:       pages,
		HasPrev:     c.page > 1,
		HasNext:     c.page < total,
		Totals:      totals,
	}
}
