package Apis

import (
	"context"
	"net/http"
	"net/url"

	"Prapatti/Models"
)

// ListOrdersByCompany calls the by-company variant of the order list,
// restricted to a date range when both ends are set.
func ListOrdersByCompany(ctx context.Context, client *Client, startDate, endDate string) ([]Models.Order, error) {
	query := url.Values{}
	if startDate != "" && endDate != "" {
		query.Set("startDate", startDate)
		query.Set("endDate", endDate)
	}
	envelope, err := call[[]Models.Order](ctx, client, http.MethodGet, "/order/list-orders-by-company", query, nil, true)
	if err != nil {
		return nil, err
	}
	return nonNilList(envelope.Data), nil
}

// ReturnOrderQuery narrows the return-order list. Empty fields are not sent.
type ReturnOrderQuery struct {
	Company      string
	ReturnReason string
	ReturnBy     string
	StartDate    string
	EndDate      string
}

func (q ReturnOrderQuery) values() url.Values {
	values := url.Values{}
	for name, value := range map[string]string{
		"company":      q.Company,
		"returnReason": q.ReturnReason,
		"returnBy":     q.ReturnBy,
		"startDate":    q.StartDate,
		"endDate":      q.EndDate,
	} {
		if value != "" {
			values.Set(name, value)
		}
	}
	return values
}

// ReturnOrderResource adds the filtered list to the plain resource.
type ReturnOrderResource struct {
	*Resource[Models.ReturnOrder]
}

func ReturnOrders(client *Client) *ReturnOrderResource {
	return &ReturnOrderResource{Resource: NewResource[Models.ReturnOrder](client, ReturnOrderEndpoints)}
}

func (r *ReturnOrderResource) List(ctx context.Context) ([]Models.ReturnOrder, error) {
	return r.ListFiltered(ctx, ReturnOrderQuery{})
}

func (r *ReturnOrderResource) ListFiltered(ctx context.Context, query ReturnOrderQuery) ([]Models.ReturnOrder, error) {
	envelope, err := call[[]Models.ReturnOrder](ctx, r.Client, http.MethodGet, r.Endpoints.List, query.values(), nil, true)
	if err != nil {
		return nil, err
	}
	return nonNilList(envelope.Data), nil
}
