package Models

import (
	"strconv"
)

// Form types mirror what the browser submits: every input arrives as a string
// and is coerced into the JSON payload only after validation passed.

type CompanyForm struct {
	Name      string   `form:"name" validate:"required"`
	Platforms []string `form:"platforms" validate:"dive,oneof=Amazon Flipkart Meesho"`
}

type CompanyPayload struct {
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
}

func (f CompanyForm) Payload() any {
	return CompanyPayload{Name: f.Name, Platforms: nonNil(f.Platforms)}
}

func CompanyToForm(c Company) CompanyForm {
	return CompanyForm{Name: c.Name, Platforms: append([]string(nil), c.Platforms...)}
}

type OrderForm struct {
	Date      string   `form:"date" validate:"required"`
	Product   string   `form:"product" validate:"required"`
	Qty       string   `form:"qty" validate:"required,num,minval=1"`
	Price     string   `form:"price" validate:"required,num,minval=0"`
	Company   string   `form:"company" validate:"required"`
	Platforms []string `form:"platforms" validate:"dive,oneof=Amazon Flipkart Meesho"`
}

type OrderPayload struct {
	Date      string   `json:"date"`
	Product   string   `json:"product"`
	Qty       float64  `json:"qty"`
	Price     float64  `json:"price"`
	Company   string   `json:"company"`
	Platforms []string `json:"platforms"`
}

func (f OrderForm) Payload() any {
	return OrderPayload{
		Date:      f.Date,
		Product:   f.Product,
		Qty:       toNumber(f.Qty),
		Price:     toNumber(f.Price),
		Company:   f.Company,
		Platforms: nonNil(f.Platforms),
	}
}

func OrderToForm(o Order) OrderForm {
	return OrderForm{
		Date:      o.Date,
		Product:   o.Product,
		Qty:       fromNumber(o.Qty),
		Price:     fromNumber(o.Price),
		Company:   o.Company,
		Platforms: append([]string(nil), o.Platforms...),
	}
}

type ReturnOrderForm struct {
	Date         string   `form:"date" validate:"required"`
	Product      string   `form:"product" validate:"required"`
	Qty          string   `form:"qty" validate:"required,num,minval=0.01"`
	Price        string   `form:"price" validate:"required,num,minval=0.01"`
	Company      string   `form:"company" validate:"required"`
	Platforms    []string `form:"platforms" validate:"dive,oneof=Amazon Flipkart Meesho"`
	ReturnReason string   `form:"returnReason" validate:"required,oneof=Damaged OK Different"`
	ReturnBy     string   `form:"returnBy" validate:"required,oneof=RTO Customer"`
}

type ReturnOrderPayload struct {
	Date         string   `json:"date"`
	Product      string   `json:"product"`
	Qty          float64  `json:"qty"`
	Price        float64  `json:"price"`
	Company      string   `json:"company"`
	Platforms    []string `json:"platforms"`
	ReturnReason string   `json:"returnReason"`
	ReturnBy     string   `json:"returnBy"`
}

func (f ReturnOrderForm) Payload() any {
	return ReturnOrderPayload{
		Date:         f.Date,
		Product:      f.Product,
		Qty:          toNumber(f.Qty),
		Price:        toNumber(f.Price),
		Company:      f.Company,
		Platforms:    nonNil(f.Platforms),
		ReturnReason: f.ReturnReason,
		ReturnBy:     f.ReturnBy,
	}
}

func ReturnOrderToForm(r ReturnOrder) ReturnOrderForm {
	return ReturnOrderForm{
		Date:         r.Date,
		Product:      r.Product,
		Qty:          fromNumber(r.Qty),
		Price:        fromNumber(r.Price),
		Company:      r.Company,
		Platforms:    append([]string(nil), r.Platforms...),
		ReturnReason: r.ReturnReason,
		ReturnBy:     r.ReturnBy,
	}
}

type TapeRollForm struct {
	Date     string `form:"date" validate:"required"`
	Quantity string `form:"quantity" validate:"required,num,minval=0.01"`
	Price    string `form:"price" validate:"required,num,minval=0.01"`
	Platform string `form:"platform" validate:"required,oneof='Amazon Taproll' 'Flipkart Taproll' 'Meesho Taproll'"`
}

type TapeRollPayload struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Platform string  `json:"platform"`
}

func (f TapeRollForm) Payload() any {
	return TapeRollPayload{
		Date:     f.Date,
		Quantity: toNumber(f.Quantity),
		Price:    toNumber(f.Price),
		Platform: f.Platform,
	}
}

// BlankTapeRollForm matches the screen defaults: zero quantity and price.
func BlankTapeRollForm() TapeRollForm {
	return TapeRollForm{Quantity: "0", Price: "0"}
}

func TapeRollToForm(t TapeRoll) TapeRollForm {
	return TapeRollForm{
		Date:     DayPart(t.Date),
		Quantity: fromNumber(t.Quantity),
		Price:    fromNumber(t.Price),
		Platform: t.Platform,
	}
}

type SizeForm struct {
	Width  string `form:"width" validate:"required,num,minval=0.01"`
	Height string `form:"height" validate:"required,num,minval=0.01"`
	Depth  string `form:"depth" validate:"required,num,minval=0.01"`
}

type KraftMailerForm struct {
	Date     string   `form:"date" validate:"required"`
	Quantity string   `form:"quantity" validate:"required,num,minval=0.01"`
	Price    string   `form:"price" validate:"required,num,minval=0.01"`
	Size     SizeForm `form:"size"`
}

type KraftMailerPayload struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Size     Size    `json:"size"`
}

func (f KraftMailerForm) Payload() any {
	return KraftMailerPayload{
		Date:     f.Date,
		Quantity: toNumber(f.Quantity),
		Price:    toNumber(f.Price),
		Size: Size{
			Width:  toNumber(f.Size.Width),
			Height: toNumber(f.Size.Height),
			Depth:  toNumber(f.Size.Depth),
		},
	}
}

func BlankKraftMailerForm() KraftMailerForm {
	return KraftMailerForm{
		Quantity: "0",
		Price:    "0",
		Size:     SizeForm{Width: "0", Height: "0", Depth: "0"},
	}
}

func KraftMailerToForm(k KraftMailer) KraftMailerForm {
	return KraftMailerForm{
		Date:     DayPart(k.Date),
		Quantity: fromNumber(k.Quantity),
		Price:    fromNumber(k.Price),
		Size: SizeForm{
			Width:  fromNumber(k.Size.Width),
			Height: fromNumber(k.Size.Height),
			Depth:  fromNumber(k.Size.Depth),
		},
	}
}

type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required,min=8"`
}

type RegisterForm struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required,min=8,password"`
	Mobile   string `form:"mobile" json:"mobile" validate:"required,mobile"`
}

func toNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func fromNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
