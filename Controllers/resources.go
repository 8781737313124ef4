package Controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"Prapatti/Apis"
	"Prapatti/Forms"
	"Prapatti/Models"
	"Prapatti/Notifications"
	"Prapatti/Screens"
	"Prapatti/middleware"
)

func (con *Console) CompanyScreen() *screen[Models.Company, Models.CompanyForm] {
	return &screen[Models.Company, Models.CompanyForm]{
		console:  con,
		path:     "/company",
		template: "company",
		title:    "Companies",
		resource: Screens.CompanyKey,
		pick:     func(w *Screens.Workspace) *Screens.CompanyScreen { return w.Companies },
		extra: func(c *fiber.Ctx, w *Screens.Workspace, data fiber.Map) {
			data["Platforms"] = Models.Platforms
		},
		columns: []string{"Name", "Platforms"},
		row: func(c Models.Company) []any {
			return []any{c.Name, joinPlatforms(c.Platforms)}
		},
	}
}

func (con *Console) OrderScreen() *screen[Models.Order, Models.OrderForm] {
	return &screen[Models.Order, Models.OrderForm]{
		console:  con,
		path:     "/order",
		template: "order",
		title:    "Orders",
		resource: Screens.OrderKey,
		pick:     func(w *Screens.Workspace) *Screens.OrderScreen { return w.Orders },
		extra: func(c *fiber.Ctx, w *Screens.Workspace, data fiber.Map) {
			data["Companies"] = companies(c, w)
			data["Platforms"] = Models.Platforms
			data["Layout"] = w.OrderLayout.Mode()
			data["Groups"] = w.OrderLayout.Groups(w.Orders.Records())
		},
		columns: []string{"Date", "Product", "Qty", "Price", "Total", "Company", "Platforms"},
		row: func(o Models.Order) []any {
			return []any{Models.DayPart(o.Date), o.Product, o.Qty, o.Price, o.Total().InexactFloat64(), o.Company, joinPlatforms(o.Platforms)}
		},
	}
}

func (con *Console) ReturnOrderScreen() *screen[Models.ReturnOrder, Models.ReturnOrderForm] {
	return &screen[Models.ReturnOrder, Models.ReturnOrderForm]{
		console:  con,
		path:     "/return-order",
		template: "return_order",
		title:    "Return Orders",
		resource: Screens.ReturnOrderKey,
		pick:     func(w *Screens.Workspace) *Screens.ReturnOrderScreen { return w.ReturnOrders },
		extra: func(c *fiber.Ctx, w *Screens.Workspace, data fiber.Map) {
			data["Companies"] = companies(c, w)
			data["Platforms"] = Models.Platforms
			data["ReturnReasons"] = Models.ReturnReasons
			data["ReturnByOptions"] = Models.ReturnByOptions
			data["HighReturns"] = Screens.HighReturnProducts(w.ReturnOrders.Records(), con.Now())
		},
		columns: []string{"Date", "Product", "Qty", "Price", "Total", "Company", "Platforms", "Return Reason", "Return By"},
		row: func(r Models.ReturnOrder) []any {
			return []any{r.Date, r.Product, r.Qty, r.Price, r.Total().InexactFloat64(), r.Company, joinPlatforms(r.Platforms), r.ReturnReason, r.ReturnBy}
		},
	}
}

func (con *Console) TapeRollScreen() *screen[Models.TapeRoll, Models.TapeRollForm] {
	return &screen[Models.TapeRoll, Models.TapeRollForm]{
		console:  con,
		path:     "/tape-roll",
		template: "tape_roll",
		title:    "Tape Rolls",
		resource: Screens.TapeRollKey,
		pick:     func(w *Screens.Workspace) *Screens.TapeRollScreen { return w.TapeRolls },
		extra: func(c *fiber.Ctx, w *Screens.Workspace, data fiber.Map) {
			data["Platforms"] = Models.TapeRollPlatforms
		},
		columns: []string{"Date", "Platform", "Quantity", "Price", "Total"},
		row: func(t Models.TapeRoll) []any {
			return []any{Models.DayPart(t.Date), t.Platform, t.Quantity, t.Price, t.Total().InexactFloat64()}
		},
	}
}

func (con *Console) KraftMailerScreen() *screen[Models.KraftMailer, Models.KraftMailerForm] {
	return &screen[Models.KraftMailer, Models.KraftMailerForm]{
		console:  con,
		path:     "/kraft-mailer",
		template: "kraft_mailer",
		title:    "Kraft Mailers",
		resource: Screens.KraftMailerKey,
		pick:     func(w *Screens.Workspace) *Screens.KraftMailerScreen { return w.KraftMailers },
		columns:  []string{"Date", "Width", "Height", "Depth", "Quantity", "Price", "Total Price"},
		row: func(k Models.KraftMailer) []any {
			return []any{Models.DayPart(k.Date), k.Size.Width, k.Size.Height, k.Size.Depth, k.Quantity, k.Price, k.TotalPrice}
		},
	}
}

// pickCompany keeps what was typed into the form and fills in the chosen
// company's platforms.
func pickCompany[T any, F Screens.Form](s *screen[T, F]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, ctrl := s.controller(c)
		var form F
		if errs := Forms.Bind(c, &form); errs != nil {
			w.Toasts.Push(errs[Forms.FormKey], Notifications.Error)
			return s.back(c)
		}
		ctrl.SetForm(form)
		ctrl.DeriveCompany(c.FormValue("company"), companies(c, w))
		return s.back(c)
	}
}

// MountScreens registers every resource screen under router.
func (con *Console) MountScreens(router fiber.Router) {
	con.CompanyScreen().mount(router)

	orders := con.OrderScreen()
	orderRoutes := orders.mount(router)
	orderRoutes.Post("/pick-company", pickCompany(orders))
	orderRoutes.Post("/view", func(c *fiber.Ctx) error {
		middleware.CurrentWorkspace(c).OrderLayout.SetMode(c.FormValue("mode"))
		return orders.back(c)
	})
	orderRoutes.Post("/toggle", func(c *fiber.Ctx) error {
		middleware.CurrentWorkspace(c).OrderLayout.Toggle(c.FormValue("company"))
		return orders.back(c)
	})
	orderRoutes.Get("/by-company", con.OrdersByCompany)

	returns := con.ReturnOrderScreen()
	returns.mount(router).Post("/pick-company", pickCompany(returns))

	con.TapeRollScreen().mount(router)
	con.KraftMailerScreen().mount(router)
}

// OrdersByCompany returns per-company sums computed over the server's
// date-ranged order list.
func (con *Console) OrdersByCompany(c *fiber.Ctx) error {
	w := middleware.CurrentWorkspace(c)
	orders, err := Apis.ListOrdersByCompany(c.UserContext(), w.Client, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": Apis.MessageOf(err, "Operation failed!")})
	}

	type summary struct {
		Company  string  `json:"company"`
		TotalQty float64 `json:"totalQty"`
		Amount   float64 `json:"totalAmount"`
		Count    int     `json:"orderCount"`
	}
	groups := Screens.GroupByCompany(orders)
	out := make([]summary, len(groups))
	for i, g := range groups {
		out[i] = summary{Company: g.Company, TotalQty: g.Qty.InexactFloat64(), Amount: g.Amount.InexactFloat64(), Count: g.Count}
	}
	return c.JSON(fiber.Map{"data": out})
}

func joinPlatforms(platforms []string) string {
	return strings.Join(platforms, ", ")
}
