package Screens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Prapatti/Apis"
	"Prapatti/Models"
	"Prapatti/Session"
)

func TestGroupByCompany(t *testing.T) {
	groups := GroupByCompany([]Models.Order{
		{ID: "1", Company: "B", Qty: 2, Price: 5},
		{ID: "2", Company: "A", Qty: 1, Price: 3},
		{ID: "3", Company: "B", Qty: 4, Price: 2.5},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].Company)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "6", groups[0].Qty.String())
	assert.Equal(t, "20", groups[0].Amount.String())
	assert.Equal(t, "A", groups[1].Company)
	assert.Equal(t, "3", groups[1].Amount.String())
}

func TestOrderLayoutTogglesIndependently(t *testing.T) {
	layout := NewOrderLayout()
	orders := []Models.Order{{Company: "A"}, {Company: "B"}}

	layout.Toggle("A")
	groups := layout.Groups(orders)
	assert.True(t, groups[0].Expanded)
	assert.False(t, groups[1].Expanded)

	layout.Toggle("A")
	layout.Toggle("B")
	groups = layout.Groups(orders)
	assert.False(t, groups[0].Expanded)
	assert.True(t, groups[1].Expanded)

	layout.SetMode("bogus")
	assert.Equal(t, ViewAll, layout.Mode())
	layout.SetMode(ViewByCompany)
	assert.Equal(t, ViewByCompany, layout.Mode())
}

func TestHighReturnProducts(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	returns := []Models.ReturnOrder{
		{Product: "Box", Qty: 30, Price: 2, Company: "A", Date: "20-05-2024", ReturnReason: "Damaged"},
		{Product: "Box", Qty: 25, Price: 2, Company: "B", Date: "21-05-2024", ReturnReason: "OK"},
		{Product: "Box", Qty: 5, Price: 2, Company: "A", Date: "22-05-2024", ReturnReason: "Damaged"},
		{Product: "Tape", Qty: 80, Price: 1, Company: "A", Date: "30-05-2024", ReturnReason: "Different"},
		{Product: "Tape", Qty: 100, Price: 1, Company: "A", Date: "01-04-2024", ReturnReason: "OK"},
		{Product: "Mailer", Qty: 49, Price: 1, Company: "C", Date: "30-05-2024", ReturnReason: "OK"},
		{Product: "Bag", Qty: 70, Price: 1, Company: "C", Date: "2024-05-30", ReturnReason: "OK"},
	}

	products := HighReturnProducts(returns, now)
	require.Len(t, products, 2)

	assert.Equal(t, "Tape", products[0].Product)
	assert.Equal(t, "80", products[0].Qty.String())

	box := products[1]
	assert.Equal(t, "Box", box.Product)
	assert.Equal(t, "60", box.Qty.String())
	assert.Equal(t, 3, box.Count)
	assert.Equal(t, "120", box.Amount.String())
	assert.Equal(t, []string{"A", "B"}, box.Companies)
	assert.Equal(t, "Damaged", box.TopReason)
}

func TestReturnOrderDateFilter(t *testing.T) {
	day := func(s string) Models.ReturnOrder { return Models.ReturnOrder{ID: s, Date: s} }
	acc := Accessors[Models.ReturnOrder]{
		Date:      func(r Models.ReturnOrder) string { return r.Date },
		ParseDate: ParseDayMonthYear,
	}
	criteria := Criteria{StartDate: "2024-05-01", EndDate: "2024-05-31"}

	assert.True(t, matches(criteria, day("01-05-2024"), acc))
	assert.True(t, matches(criteria, day("31-05-2024"), acc))
	assert.False(t, matches(criteria, day("01-06-2024"), acc))
	// ISO dates do not parse as DD-MM-YYYY and fall out of any range.
	assert.False(t, matches(criteria, day("2024-05-10"), acc))
	assert.True(t, matches(Criteria{StartDate: "2024-05-01"}, day("2024-05-10"), acc))
}

func TestDefaultRange(t *testing.T) {
	start, end := DefaultRange(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-29", end)
}

func TestWorkspaceResetsOnExpiry(t *testing.T) {
	manager := Session.NewManager(Session.NewMemoryStorage(), time.Hour)
	s, _ := manager.Resolve("")
	require.NoError(t, s.SetToken("abc"))

	workspaces := NewWorkspaces(Apis.NewClient("http://127.0.0.1:0", nil), 2*time.Second)
	w := workspaces.For(s)
	assert.Same(t, w, workspaces.For(s))

	_, err := Apis.Query(context.Background(), w.Cache, CompanyKey, func(context.Context) ([]Models.Company, error) {
		return []Models.Company{{Name: "Acme"}}, nil
	})
	require.NoError(t, err)
	w.Orders.Paginate(4)
	w.OrderLayout.Toggle("Acme")

	s.Expire()

	assert.False(t, w.Cache.Cached(CompanyKey))
	assert.Equal(t, 1, w.Orders.View().Page)
	assert.False(t, w.OrderLayout.Groups([]Models.Order{{Company: "Acme"}})[0].Expanded)

	workspaces.Evict(s.ID)
	assert.Zero(t, workspaces.Len())
}

func TestWorkspaceClientCarriesSessionToken(t *testing.T) {
	manager := Session.NewManager(Session.NewMemoryStorage(), time.Hour)
	s, _ := manager.Resolve("")
	require.NoError(t, s.SetToken("abc"))

	w := NewWorkspace(Apis.NewClient("http://example.invalid", nil), s, time.Second)
	defer w.Close()
	assert.Equal(t, "abc", w.Client.Tokens.Token())
}
