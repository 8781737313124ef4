package Screens

import (
	"fmt"

	"github.com/shopspring/decimal"

	"Prapatti/Apis"
	"Prapatti/Forms"
	"Prapatti/Models"
	"Prapatti/Reports"
)

type (
	CompanyScreen     = Controller[Models.Company, Models.CompanyForm]
	OrderScreen       = Controller[Models.Order, Models.OrderForm]
	ReturnOrderScreen = Controller[Models.ReturnOrder, Models.ReturnOrderForm]
	TapeRollScreen    = Controller[Models.TapeRoll, Models.TapeRollForm]
	KraftMailerScreen = Controller[Models.KraftMailer, Models.KraftMailerForm]
)

// Cache keys, one per resource.
const (
	CompanyKey     = "company"
	OrderKey       = "order"
	ReturnOrderKey = "return-order"
	TapeRollKey    = "tape-roll"
	KraftMailerKey = "kraft-mailer"
)

func measure(qty, price float64, total decimal.Decimal) Measures {
	return Measures{Qty: decimal.NewFromFloat(qty), Price: decimal.NewFromFloat(price), Amount: total}
}

func rangeBody(criteria Criteria) any {
	return map[string]string{"startDate": criteria.StartDate, "endDate": criteria.EndDate}
}

func formatFailure(format Reports.Format) string {
	return format.FailureMessage()
}

func NewCompanyScreen(client *Apis.Client, cache *Apis.QueryCache) *CompanyScreen {
	return NewController(Config[Models.Company, Models.CompanyForm]{
		Name:     CompanyKey,
		Backend:  Apis.Companies(client),
		Cache:    cache,
		ID:       func(c Models.Company) string { return c.ID },
		ToForm:   Models.CompanyToForm,
		Blank:    func() Models.CompanyForm { return Models.CompanyForm{} },
		Messages: Forms.CompanyMessages,
	})
}

func NewOrderScreen(client *Apis.Client, cache *Apis.QueryCache) *OrderScreen {
	return NewController(Config[Models.Order, Models.OrderForm]{
		Name:     OrderKey,
		Backend:  Apis.Orders(client),
		Cache:    cache,
		ID:       func(o Models.Order) string { return o.ID },
		ToForm:   Models.OrderToForm,
		Blank:    func() Models.OrderForm { return Models.OrderForm{} },
		Messages: Forms.OrderMessages,
		Accessors: Accessors[Models.Order]{
			Company: func(o Models.Order) string { return o.Company },
		},
		Measure: func(o Models.Order) Measures { return measure(o.Qty, o.Price, o.Total()) },
		WithCompany: func(f Models.OrderForm, c Models.Company) Models.OrderForm {
			f.Company, f.Platforms = c.Name, append([]string{}, c.Platforms...)
			return f
		},
		Report: &ReportSpec{
			Endpoints: map[Reports.Format]string{Reports.Excel: "/order/generate-order-report"},
			Body: func(criteria Criteria) any {
				body := map[string]string{"startDate": criteria.StartDate, "endDate": criteria.EndDate}
				if criteria.Company != "" {
					body["company"] = criteria.Company
				}
				return body
			},
			Filename: func(criteria Criteria, _ Reports.Format) string {
				prefix := "all_companies"
				if criteria.Company != "" {
					prefix = Reports.SanitizeName(criteria.Company)
				}
				return fmt.Sprintf("%s_orders_report_%s_to_%s.xlsx", prefix, criteria.StartDate, criteria.EndDate)
			},
			Failure: func(Reports.Format) string { return "Export failed!" },
		},
		Downloader: client,
	})
}

func NewReturnOrderScreen(client *Apis.Client, cache *Apis.QueryCache) *ReturnOrderScreen {
	return NewController(Config[Models.ReturnOrder, Models.ReturnOrderForm]{
		Name:     ReturnOrderKey,
		Backend:  Apis.ReturnOrders(client),
		Cache:    cache,
		ID:       func(r Models.ReturnOrder) string { return r.ID },
		ToForm:   Models.ReturnOrderToForm,
		Blank:    func() Models.ReturnOrderForm { return Models.ReturnOrderForm{} },
		Messages: Forms.ReturnOrderMessages,
		Accessors: Accessors[Models.ReturnOrder]{
			Company:      func(r Models.ReturnOrder) string { return r.Company },
			ReturnReason: func(r Models.ReturnOrder) string { return r.ReturnReason },
			ReturnBy:     func(r Models.ReturnOrder) string { return r.ReturnBy },
			Date:         func(r Models.ReturnOrder) string { return r.Date },
			ParseDate:    ParseDayMonthYear,
		},
		Measure: func(r Models.ReturnOrder) Measures { return measure(r.Qty, r.Price, r.Total()) },
		WithCompany: func(f Models.ReturnOrderForm, c Models.Company) Models.ReturnOrderForm {
			f.Company, f.Platforms = c.Name, append([]string{}, c.Platforms...)
			return f
		},
		Report: &ReportSpec{
			Endpoints: map[Reports.Format]string{
				Reports.Excel: "/return-order/generate-return-order-report",
				Reports.PDF:   "/return-order/generate-return-order-report-pdf",
			},
			Body: func(criteria Criteria) any {
				body := map[string]string{"startDate": criteria.StartDate, "endDate": criteria.EndDate}
				for name, value := range map[string]string{
					"company":      criteria.Company,
					"returnReason": criteria.ReturnReason,
					"returnBy":     criteria.ReturnBy,
				} {
					if value != "" {
						body[name] = value
					}
				}
				return body
			},
			Filename: func(criteria Criteria, format Reports.Format) string {
				return fmt.Sprintf("return_orders_report_%s_to_%s.%s", criteria.StartDate, criteria.EndDate, format.Extension())
			},
			Failure: formatFailure,
		},
		Downloader: client,
	})
}

func NewTapeRollScreen(client *Apis.Client, cache *Apis.QueryCache) *TapeRollScreen {
	return NewController(Config[Models.TapeRoll, Models.TapeRollForm]{
		Name:     TapeRollKey,
		Backend:  Apis.TapeRolls(client),
		Cache:    cache,
		ID:       func(t Models.TapeRoll) string { return t.ID },
		ToForm:   Models.TapeRollToForm,
		Blank:    Models.BlankTapeRollForm,
		Messages: Forms.TapeRollMessages,
		Measure:  func(t Models.TapeRoll) Measures { return measure(t.Quantity, t.Price, t.Total()) },
		Report: &ReportSpec{
			Endpoints: map[Reports.Format]string{
				Reports.Excel: "/taperoll/taproll-report",
				Reports.PDF:   "/taperoll/taproll-report-pdf",
			},
			Body: rangeBody,
			Filename: func(criteria Criteria, format Reports.Format) string {
				return fmt.Sprintf("taproll-report-%s_to_%s.%s", criteria.StartDate, criteria.EndDate, format.Extension())
			},
			Failure: formatFailure,
		},
		Downloader: client,
	})
}

func NewKraftMailerScreen(client *Apis.Client, cache *Apis.QueryCache) *KraftMailerScreen {
	return NewController(Config[Models.KraftMailer, Models.KraftMailerForm]{
		Name:     KraftMailerKey,
		Backend:  Apis.KraftMailers(client),
		Cache:    cache,
		ID:       func(k Models.KraftMailer) string { return k.ID },
		ToForm:   Models.KraftMailerToForm,
		Blank:    Models.BlankKraftMailerForm,
		Messages: Forms.KraftMailerMessages,
		Measure:  func(k Models.KraftMailer) Measures { return measure(k.Quantity, k.Price, k.Total()) },
		Report: &ReportSpec{
			Endpoints: map[Reports.Format]string{
				Reports.Excel: "/kraftmailer/kraftmailer-report",
				Reports.PDF:   "/kraftmailer/kraftmailer-report-pdf",
			},
			Body: rangeBody,
			Filename: func(criteria Criteria, format Reports.Format) string {
				return fmt.Sprintf("kraftmailer-report-%s_to_%s.%s", criteria.StartDate, criteria.EndDate, format.Extension())
			},
			Failure: formatFailure,
		},
		Downloader: client,
	})
}
