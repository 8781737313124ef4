package Controllers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Prapatti/Apis"
	"Prapatti/Forms"
	"Prapatti/Models"
	"Prapatti/Notifications"
	"Prapatti/Reports"
	"Prapatti/Screens"
	"Prapatti/middleware"
)

const layout = "layouts/main"

// Console holds what every handler shares.
type Console struct {
	Journal *Models.Journal
	Now     func() time.Time
}

func NewConsole(journal *Models.Journal) *Console {
	return &Console{Journal: journal, Now: time.Now}
}

// page starts the template data every screen renders with.
func (con *Console) page(c *fiber.Ctx, title, active string) fiber.Map {
	w := middleware.CurrentWorkspace(c)
	data := fiber.Map{
		"Title":        title,
		"Active":       active,
		"Toasts":       w.Toasts.Drain(),
		"ToastTimeout": w.Toasts.TimeoutMillis(),
		"LoggedIn":     middleware.CurrentSession(c).HasToken(),
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["User"] = user
	}
	return data
}

// record journals an action that reached the REST service.
func (con *Console) record(c *fiber.Ctx, resource, action, recordID string, err error, details any) {
	entry := Models.AuditEntry{
		CreatedAt: con.Now(),
		Resource:  resource,
		Action:    action,
		RecordID:  recordID,
		Outcome:   Models.OutcomeSuccess,
	}
	if s := middleware.CurrentSession(c); s != nil {
		entry.SessionID = s.ID
	}
	if user, ok := middleware.CurrentUser(c); ok {
		entry.User = user.Email
	}
	if err != nil {
		entry.Outcome = Models.OutcomeFailure
		entry.Message = err.Error()
	}
	if jerr := con.Journal.Record(entry, details); jerr != nil {
		log.Printf("journal %s %s: %v", resource, action, jerr)
	}
}

func (con *Console) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// screen wires one resource controller to its routes and template.
type screen[T any, F Screens.Form] struct {
	console  *Console
	path     string
	template string
	title    string
	resource string
	pick     func(*Screens.Workspace) *Screens.Controller[T, F]
	extra    func(c *fiber.Ctx, w *Screens.Workspace, data fiber.Map)
	columns  []string
	row      func(T) []any
}

func (s *screen[T, F]) mount(router fiber.Router) fiber.Router {
	group := router.Group(s.path)
	group.Get("/", s.show)
	group.Post("/", s.submit)
	group.Post("/edit/:id", s.edit)
	group.Post("/cancel", s.cancel)
	group.Post("/delete/:id", s.remove)
	group.Post("/filter", s.filter)
	group.Post("/export", s.export)
	group.Get("/snapshot", s.snapshot)
	return group
}

func (s *screen[T, F]) controller(c *fiber.Ctx) (*Screens.Workspace, *Screens.Controller[T, F]) {
	w := middleware.CurrentWorkspace(c)
	return w, s.pick(w)
}

func (s *screen[T, F]) back(c *fiber.Ctx) error {
	return c.Redirect(s.path)
}

func (s *screen[T, F]) show(c *fiber.Ctx) error {
	w, ctrl := s.controller(c)
	if page := c.Query("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil {
			ctrl.Paginate(n)
		}
	}
	if err := ctrl.Load(c.UserContext()); errors.Is(err, Apis.ErrUnauthorized) {
		return s.back(c)
	}

	data := s.console.page(c, s.title, s.path)
	data["View"] = ctrl.View()
	data["Excel"] = ctrl.Offers(Reports.Excel)
	data["PDF"] = ctrl.Offers(Reports.PDF)
	if s.extra != nil {
		s.extra(c, w, data)
	}
	return c.Render(s.template, data, layout)
}

func (s *screen[T, F]) submit(c *fiber.Ctx) error {
	w, ctrl := s.controller(c)
	var form F
	if errs := Forms.Bind(c, &form); errs != nil {
		w.Toasts.Push(errs[Forms.FormKey], Notifications.Error)
		return s.back(c)
	}

	editingID := ctrl.View().EditingID
	err := ctrl.Submit(c.UserContext(), form)
	if errors.Is(err, Screens.ErrInvalid) {
		return s.back(c)
	}
	action := "create"
	if editingID != "" {
		action = "update"
	}
	s.console.record(c, s.resource, action, editingID, err, form.Payload())
	return s.back(c)
}

func (s *screen[T, F]) edit(c *fiber.Ctx) error {
	w, ctrl := s.controller(c)
	if err := ctrl.SelectByID(c.Params("id")); err != nil {
		w.Toasts.Push("Record not found", Notifications.Error)
	}
	return s.back(c)
}

func (s *screen[T, F]) cancel(c *fiber.Ctx) error {
	_, ctrl := s.controller(c)
	ctrl.CancelEdit()
	return s.back(c)
}

func (s *screen[T, F]) remove(c *fiber.Ctx) error {
	_, ctrl := s.controller(c)
	id := c.Params("id")
	err := ctrl.Remove(c.UserContext(), id)
	s.console.record(c, s.resource, "delete", id, err, nil)
	return s.back(c)
}

func (s *screen[T, F]) filter(c *fiber.Ctx) error {
	_, ctrl := s.controller(c)
	var criteria Screens.Criteria
	if err := c.BodyParser(&criteria); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid filter")
	}
	ctrl.Filter(criteria)
	return s.back(c)
}

// export applies the posted date range, then streams the server report back
// as an attachment. Failures land on the screen as its error line.
func (s *screen[T, F]) export(c *fiber.Ctx) error {
	w, ctrl := s.controller(c)
	format, err := Reports.ParseFormat(c.FormValue("format"))
	if err != nil {
		w.Toasts.Push(err.Error(), Notifications.Error)
		return s.back(c)
	}

	criteria := ctrl.Criteria()
	start, end := posted(c, "startDate", criteria.StartDate), posted(c, "endDate", criteria.EndDate)
	if start != criteria.StartDate || end != criteria.EndDate {
		criteria.StartDate, criteria.EndDate = start, end
		ctrl.Filter(criteria)
	}

	var file Reports.File
	if company := c.FormValue("exportCompany"); company != "" {
		file, err = ctrl.ExportCompanyReport(c.UserContext(), format, s.console.Now(), company)
	} else {
		file, err = ctrl.ExportReport(c.UserContext(), format, s.console.Now())
	}
	if errors.Is(err, Screens.ErrDownloading) {
		w.Toasts.Push("A report is already downloading", Notifications.Info)
		return s.back(c)
	}
	if errors.Is(err, Screens.ErrNoReport) {
		return fiber.ErrNotFound
	}

	s.console.record(c, s.resource, "export", "", err, fiber.Map{"format": format, "file": file.Name})
	if err != nil {
		return s.back(c)
	}
	return file.Send(c)
}

// snapshot writes the filtered rows to a workbook locally, without asking
// the REST service for a report.
func (s *screen[T, F]) snapshot(c *fiber.Ctx) error {
	_, ctrl := s.controller(c)
	if s.row == nil {
		return fiber.ErrNotFound
	}

	records := ctrl.Filtered()
	rows := make([][]any, len(records))
	for i, record := range records {
		rows[i] = s.row(record)
	}
	data, err := Reports.Snapshot(Reports.Sheet{Name: s.title, Headers: s.columns, Rows: rows})
	if err != nil {
		return fmt.Errorf("%s snapshot: %w", s.resource, err)
	}
	return Reports.File{
		Name:        fmt.Sprintf("%s-snapshot-%s.xlsx", s.resource, s.console.Now().Format("2006-01-02")),
		ContentType: Reports.SpreadsheetType,
		Data:        data,
	}.Send(c)
}

// posted returns the submitted value of key, even when it is empty, and
// current when the form did not carry the field at all.
func posted(c *fiber.Ctx, key, current string) string {
	if c.Request().PostArgs().Has(key) {
		return c.FormValue(key)
	}
	return current
}

// companies loads the company list for the company pickers of other screens.
func companies(c *fiber.Ctx, w *Screens.Workspace) []Models.Company {
	_ = w.Companies.Load(c.UserContext())
	return w.Companies.Records()
}
