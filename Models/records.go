package Models

import (
	"github.com/shopspring/decimal"
)

// Platforms a company can sell on.
var Platforms = []string{"Amazon", "Flipkart", "Meesho"}

// TapeRollPlatforms are the tape roll variants stocked per platform.
var TapeRollPlatforms = []string{"Amazon Taproll", "Flipkart Taproll", "Meesho Taproll"}

var ReturnReasons = []string{"Damaged", "OK", "Different"}

var ReturnByOptions = []string{"RTO", "Customer"}

// Company is a seller account on one or more platforms. Orders reference it by
// name, so a rename on the server does not cascade into existing orders.
type Company struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
}

type Order struct {
	ID        string   `json:"_id"`
	Date      string   `json:"date"`
	Product   string   `json:"product"`
	Qty       float64  `json:"qty"`
	Price     float64  `json:"price"`
	Company   string   `json:"company"`
	Platforms []string `json:"platforms"`
}

// Total is qty × price. It is only displayed, never sent back.
func (o Order) Total() decimal.Decimal {
	return lineTotal(o.Qty, o.Price)
}

type ReturnOrder struct {
	ID           string   `json:"_id"`
	Date         string   `json:"date"`
	Product      string   `json:"product"`
	Qty          float64  `json:"qty"`
	Price        float64  `json:"price"`
	Company      string   `json:"company"`
	Platforms    []string `json:"platforms"`
	ReturnReason string   `json:"returnReason"`
	ReturnBy     string   `json:"returnBy"`
}

func (r ReturnOrder) Total() decimal.Decimal {
	return lineTotal(r.Qty, r.Price)
}

type TapeRoll struct {
	ID       string  `json:"_id"`
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Platform string  `json:"platform"`
}

// Total is computed locally; the server does not return one for tape rolls.
func (t TapeRoll) Total() decimal.Decimal {
	return lineTotal(t.Quantity, t.Price)
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type KraftMailer struct {
	ID         string  `json:"_id"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Size       Size    `json:"size"`
	TotalPrice float64 `json:"totalPrice"`
}

// Total returns the server computed total price.
func (k KraftMailer) Total() decimal.Decimal {
	return decimal.NewFromFloat(k.TotalPrice)
}

func lineTotal(qty, price float64) decimal.Decimal {
	return decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))
}

// DayPart trims an ISO timestamp ("2024-05-01T00:00:00.000Z") to its date.
func DayPart(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
