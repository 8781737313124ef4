package Apis

import (
	"context"
	"net/http"
	"net/url"

	"Prapatti/Models"
)

// Endpoints lists the paths of one resource. Update and Delete take the
// record id appended as the last segment.
type Endpoints struct {
	List   string
	Create string
	Update string
	Delete string
}

var (
	CompanyEndpoints = Endpoints{
		List:   "/company/list-companies",
		Create: "/company/add-company",
		Update: "/company/update-company/",
		Delete: "/company/delete-company/",
	}
	OrderEndpoints = Endpoints{
		List:   "/order/list-orders",
		Create: "/order/add-order",
		Update: "/order/update-order/",
		Delete: "/order/delete-order/",
	}
	ReturnOrderEndpoints = Endpoints{
		List:   "/return-order/list-return-orders",
		Create: "/return-order/add-return-order",
		Update: "/return-order/update-return-order/",
		Delete: "/return-order/delete-return-order/",
	}
	TapeRollEndpoints = Endpoints{
		List:   "/taperoll/list-taprolls",
		Create: "/taperoll/add-taproll",
		Update: "/taperoll/update-taproll/",
		Delete: "/taperoll/delete-taproll/",
	}
	KraftMailerEndpoints = Endpoints{
		List:   "/kraftmailer/list-kraftmailers",
		Create: "/kraftmailer/add-kraftmailer",
		Update: "/kraftmailer/update-kraftmailer/",
		Delete: "/kraftmailer/delete-kraftmailer/",
	}
)

// Resource is the list/create/update/delete surface of one backend
// collection.
type Resource[T any] struct {
	Client    *Client
	Endpoints Endpoints
}

func NewResource[T any](client *Client, endpoints Endpoints) *Resource[T] {
	return &Resource[T]{Client: client, Endpoints: endpoints}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	envelope, err := call[[]T](ctx, r.Client, http.MethodGet, r.Endpoints.List, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return nonNilList(envelope.Data), nil
}

func (r *Resource[T]) Create(ctx context.Context, payload any) error {
	_, err := call[any](ctx, r.Client, http.MethodPost, r.Endpoints.Create, nil, payload, true)
	return err
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload any) error {
	_, err := call[any](ctx, r.Client, http.MethodPut, r.Endpoints.Update+url.PathEscape(id), nil, payload, true)
	return err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := call[any](ctx, r.Client, http.MethodDelete, r.Endpoints.Delete+url.PathEscape(id), nil, nil, true)
	return err
}

func nonNilList[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func Companies(client *Client) *Resource[Models.Company] {
	return NewResource[Models.Company](client, CompanyEndpoints)
}

func Orders(client *Client) *Resource[Models.Order] {
	return NewResource[Models.Order](client, OrderEndpoints)
}

func TapeRolls(client *Client) *Resource[Models.TapeRoll] {
	return NewResource[Models.TapeRoll](client, TapeRollEndpoints)
}

func KraftMailers(client *Client) *Resource[Models.KraftMailer] {
	return NewResource[Models.KraftMailer](client, KraftMailerEndpoints)
}
