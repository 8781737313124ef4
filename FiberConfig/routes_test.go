package FiberConfig

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Prapatti/Apis"
	"Prapatti/Config"
	"Prapatti/Controllers"
	"Prapatti/Models"
	"Prapatti/Reports"
	"Prapatti/Screens"
	"Prapatti/Session"
	"Prapatti/middleware"
)

// backend is a small stand-in for the REST service.
type backend struct {
	mu        sync.Mutex
	token     string
	companies []Models.Company
	orders    []Models.Order
	nextID    int
	rejectAll bool
	reports   []string
}

func (b *backend) reply(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": status, "message": message, "data": data})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path == "/auth/login" {
		var creds Models.LoginForm
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "Secret#123" {
			b.reply(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		b.reply(w, http.StatusOK, "Logged in", map[string]string{"token": b.token})
		return
	}
	if r.URL.Path == "/auth/register" {
		b.reply(w, http.StatusCreated, "Registered successfully", nil)
		return
	}

	if b.rejectAll || r.Header.Get("Authorization") != "Bearer "+b.token {
		b.reply(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	switch {
	case r.URL.Path == Apis.CompanyEndpoints.List:
		b.reply(w, http.StatusOK, "ok", b.companies)
	case r.URL.Path == Apis.CompanyEndpoints.Create:
		var c Models.Company
		_ = json.NewDecoder(r.Body).Decode(&c)
		b.nextID++
		c.ID = "c" + string(rune('0'+b.nextID))
		b.companies = append(b.companies, c)
		b.reply(w, http.StatusCreated, "created", c)
	case r.URL.Path == Apis.OrderEndpoints.List, r.URL.Path == "/order/list-orders-by-company":
		b.reply(w, http.StatusOK, "ok", b.orders)
	case r.URL.Path == "/order/generate-order-report":
		body, _ := io.ReadAll(r.Body)
		b.reports = append(b.reports, string(body))
		w.Header().Set("Content-Type", Reports.SpreadsheetType)
		_, _ = w.Write([]byte("xlsx-bytes"))
	default:
		b.reply(w, http.StatusNotFound, "not found", nil)
	}
}

type browser struct {
	t   *testing.T
	app *fiber.App
	sid string
}

func (b *browser) do(method, path string, form url.Values) *http.Response {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	}
	if b.sid != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+b.sid)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			b.sid = cookie.Value
		}
	}
	return resp
}

func (b *browser) page(path string) *goquery.Document {
	b.t.Helper()
	resp := b.do(fiber.MethodGet, path, nil)
	require.Equal(b.t, fiber.StatusOK, resp.StatusCode, path)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)
	return doc
}

func (b *browser) login() {
	b.t.Helper()
	resp := b.do(fiber.MethodPost, "/", url.Values{"email": {"asha@example.com"}, "password": {"Secret#123"}})
	require.Equal(b.t, fiber.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/order", resp.Header.Get("Location"))
}

func testServer(t *testing.T) (*browser, *backend, *Models.Journal) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u1", "name": "Asha", "email": "asha@example.com",
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	rest := &backend{token: token}
	server := httptest.NewServer(rest)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	db, err := Models.Connect(filepath.Join(dir, "console.db"))
	require.NoError(t, err)
	journal := Models.NewJournal(db)

	cfg := &Config.Config{
		APIBaseURL:   server.URL,
		SessionTTL:   time.Hour,
		LogDir:       filepath.Join(dir, "logs"),
		TemplatesDir: "../Templates",
		ToastTimeout: 2 * time.Second,
	}
	console := Controllers.NewConsole(journal)
	console.Now = func() time.Time { return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC) }

	app := NewApp(Server{
		Config:     cfg,
		Console:    console,
		Sessions:   Session.NewManager(Session.NewMemoryStorage(), cfg.SessionTTL),
		Workspaces: Screens.NewWorkspaces(Apis.NewClient(server.URL, nil), cfg.ToastTimeout),
	})
	return &browser{t: t, app: app}, rest, journal
}

func TestGuardSendsAnonymousBrowsersToLogin(t *testing.T) {
	b, _, _ := testServer(t)

	for _, path := range []string{"/order", "/company", "/return-order", "/tape-roll", "/kraft-mailer", "/activity", "/home"} {
		resp := b.do(fiber.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/", resp.Header.Get("Location"), path)
	}

	doc := b.page("/")
	assert.Equal(t, 1, doc.Find(`form[action="/"] input[name="email"]`).Length())
}

func TestHealth(t *testing.T) {
	b, _, _ := testServer(t)
	resp := b.do(fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginShowsServerMessage(t *testing.T) {
	b, _, _ := testServer(t)

	resp := b.do(fiber.MethodPost, "/", url.Values{"email": {"asha@example.com"}, "password": {"wrongpass1"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".error").Text(), "Invalid credentials")
}

func TestLoginValidatesBeforeCallingServer(t *testing.T) {
	b, _, journal := testServer(t)

	resp := b.do(fiber.MethodPost, "/", url.Values{"email": {""}, "password": {"short"}})
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	text := doc.Find(".error").Text()
	assert.Contains(t, text, "Email is required")
	assert.Contains(t, text, "Password must be at least 8 characters")

	entries, err := journal.List(Models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoginLogoutCycle(t *testing.T) {
	b, _, journal := testServer(t)
	b.login()

	resp := b.do(fiber.MethodGet, "/", nil)
	assert.Equal(t, "/order", resp.Header.Get("Location"))

	doc := b.page("/order")
	assert.Contains(t, doc.Find(".header .user").Text(), "Asha")

	resp = b.do(fiber.MethodPost, "/logout", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp = b.do(fiber.MethodGet, "/order", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	entries, err := journal.List(Models.AuditFilter{Resource: "auth"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logout", entries[0].Action)
	assert.Equal(t, "login", entries[1].Action)
}

func TestLoginIssuesFreshSessionID(t *testing.T) {
	b, _, journal := testServer(t)
	b.page("/")
	before := b.sid
	require.NotEmpty(t, before)

	b.login()
	require.NotEqual(t, before, b.sid)
	assert.Contains(t, b.page("/order").Find(".header .user").Text(), "Asha")

	stale := &browser{t: t, app: b.app, sid: before}
	resp := stale.do(fiber.MethodGet, "/order", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	entries, err := journal.List(Models.AuditFilter{Resource: "auth"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, b.sid, entries[0].SessionID)
}

func TestRegisterRedirectsWithToast(t *testing.T) {
	b, _, _ := testServer(t)

	resp := b.do(fiber.MethodPost, "/register", url.Values{
		"name": {"Asha"}, "email": {"asha@example.com"}, "password": {"Secret#123"}, "mobile": {"9876543210"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	doc := b.page("/")
	assert.Equal(t, "Registered successfully", strings.TrimSpace(doc.Find(".toast-success").Text()))
	// shown once
	assert.Equal(t, 0, b.page("/").Find(".toast").Length())
}

func TestRegisterFieldErrors(t *testing.T) {
	b, _, _ := testServer(t)

	resp := b.do(fiber.MethodPost, "/register", url.Values{
		"name": {"Asha"}, "email": {"asha@example.com"}, "password": {"alllowercase"}, "mobile": {"12345"},
	})
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	text := doc.Find(".error").Text()
	assert.Contains(t, text, "Must include uppercase, lowercase, number & special char")
	assert.Contains(t, text, "Enter a valid 10-digit mobile number")
}

func TestCreateCompany(t *testing.T) {
	b, rest, journal := testServer(t)
	b.login()

	resp := b.do(fiber.MethodPost, "/company/", url.Values{"name": {"Acme"}, "platforms": {"Amazon", "Meesho"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/company", resp.Header.Get("Location"))

	require.Len(t, rest.companies, 1)
	assert.Equal(t, []string{"Amazon", "Meesho"}, rest.companies[0].Platforms)

	doc := b.page("/company")
	rows := doc.Find("#records tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Acme", rows.Find("td").First().Text())

	entries, err := journal.List(Models.AuditFilter{Resource: Screens.CompanyKey})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, Models.OutcomeSuccess, entries[0].Outcome)
	assert.Equal(t, "asha@example.com", entries[0].User)
}

func TestInvalidCompanyStaysOnScreen(t *testing.T) {
	b, rest, _ := testServer(t)
	b.login()

	b.do(fiber.MethodPost, "/company/", url.Values{"name": {""}})
	assert.Empty(t, rest.companies)

	doc := b.page("/company")
	assert.Contains(t, doc.Find("form .error").Text(), "Name is required")
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	b, rest, _ := testServer(t)
	b.login()
	rest.mu.Lock()
	rest.rejectAll = true
	rest.mu.Unlock()

	resp := b.do(fiber.MethodGet, "/company", nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	resp = b.do(fiber.MethodGet, resp.Header.Get("Location"), nil)
	require.Equal(t, "/", resp.Header.Get("Location"))

	doc := b.page("/")
	assert.Contains(t, doc.Find(".toast-error").Text(), middleware.ExpiredMessage)
}

func TestOrdersByCompanyJSON(t *testing.T) {
	b, rest, _ := testServer(t)
	rest.orders = []Models.Order{
		{ID: "o1", Product: "Mug", Qty: 2, Price: 10, Company: "Acme"},
		{ID: "o2", Product: "Cup", Qty: 1, Price: 5, Company: "Zen"},
		{ID: "o3", Product: "Mug", Qty: 3, Price: 10, Company: "Acme"},
	}
	b.login()

	resp := b.do(fiber.MethodGet, "/order/by-company?startDate=2024-05-01&endDate=2024-05-31", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data []struct {
			Company string  `json:"company"`
			Qty     float64 `json:"totalQty"`
			Amount  float64 `json:"totalAmount"`
			Count   int     `json:"orderCount"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Acme", out.Data[0].Company)
	assert.Equal(t, 5.0, out.Data[0].Qty)
	assert.Equal(t, 50.0, out.Data[0].Amount)
	assert.Equal(t, 2, out.Data[0].Count)
}

func TestOrderViewByCompany(t *testing.T) {
	b, rest, _ := testServer(t)
	rest.orders = []Models.Order{
		{ID: "o1", Product: "Mug", Qty: 2, Price: 10, Company: "Acme"},
		{ID: "o2", Product: "Cup", Qty: 1, Price: 5, Company: "Zen"},
	}
	b.login()

	b.do(fiber.MethodPost, "/order/view", url.Values{"mode": {"company"}})
	doc := b.page("/order")
	assert.Equal(t, 2, doc.Find("#groups .group").Length())
	assert.Equal(t, 0, doc.Find("#groups table").Length())

	b.do(fiber.MethodPost, "/order/toggle", url.Values{"company": {"Acme"}})
	doc = b.page("/order")
	assert.Equal(t, 1, doc.Find("#groups table").Length())
}

func TestOrderGroupToggleWithSpacedCompanyName(t *testing.T) {
	b, rest, _ := testServer(t)
	rest.orders = []Models.Order{
		{ID: "o1", Product: "Mug", Qty: 2, Price: 10, Company: "Acme Corp"},
		{ID: "o2", Product: "Cup", Qty: 1, Price: 5, Company: "Zen/Works"},
	}
	b.login()
	b.do(fiber.MethodPost, "/order/view", url.Values{"mode": {"company"}})

	doc := b.page("/order")
	toggle := doc.Find(`#groups .group form[action="/order/toggle"]`).First()
	action, _ := toggle.Attr("action")
	company, _ := toggle.Find(`input[name="company"]`).Attr("value")
	require.Equal(t, "Acme Corp", company)

	resp := b.do(fiber.MethodPost, action, url.Values{"company": {company}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	doc = b.page("/order")
	assert.Equal(t, 1, doc.Find("#groups table").Length())

	b.do(fiber.MethodPost, "/order/toggle", url.Values{"company": {"Zen/Works"}})
	doc = b.page("/order")
	assert.Equal(t, 2, doc.Find("#groups table").Length())
}

func TestOrderExportUsesDefaultRange(t *testing.T) {
	b, rest, journal := testServer(t)
	b.login()

	resp := b.do(fiber.MethodPost, "/order/export", url.Values{"format": {"excel"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, Reports.SpreadsheetType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "xlsx-bytes", string(body))

	require.Len(t, rest.reports, 1)
	assert.Contains(t, rest.reports[0], `"startDate":"2024-05-01"`)
	assert.Contains(t, rest.reports[0], `"endDate":"2024-05-20"`)

	entries, err := journal.List(Models.AuditFilter{Resource: Screens.OrderKey})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "export", entries[0].Action)
}

func TestOrderExportClearedRangeFallsBackToDefault(t *testing.T) {
	b, rest, _ := testServer(t)
	b.login()

	resp := b.do(fiber.MethodPost, "/order/export", url.Values{"format": {"excel"}, "startDate": {"2024-04-01"}, "endDate": {"2024-04-30"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = b.do(fiber.MethodPost, "/order/export", url.Values{"format": {"excel"}, "startDate": {""}, "endDate": {""}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, rest.reports, 2)
	assert.Contains(t, rest.reports[0], `"startDate":"2024-04-01"`)
	assert.Contains(t, rest.reports[1], `"startDate":"2024-05-01"`)
	assert.Contains(t, rest.reports[1], `"endDate":"2024-05-20"`)
}

func TestOrderFooterSumsPrice(t *testing.T) {
	b, rest, _ := testServer(t)
	rest.orders = []Models.Order{
		{ID: "o1", Product: "Mug", Qty: 2, Price: 10, Company: "Acme"},
		{ID: "o2", Product: "Cup", Qty: 1, Price: 5.5, Company: "Zen"},
	}
	b.login()

	cells := b.page("/order").Find("#records tfoot td")
	assert.Equal(t, "3", strings.TrimSpace(cells.Eq(1).Text()))
	assert.Equal(t, "15.50", strings.TrimSpace(cells.Eq(2).Text()))
	assert.Equal(t, "25.50", strings.TrimSpace(cells.Eq(3).Text()))
}

func TestSnapshotDownload(t *testing.T) {
	b, rest, _ := testServer(t)
	rest.companies = []Models.Company{{ID: "c1", Name: "Acme", Platforms: []string{"Amazon"}}}
	b.login()

	resp := b.do(fiber.MethodGet, "/company/snapshot", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, Reports.SpreadsheetType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "company-snapshot-2024-05-20.xlsx")
}

func TestActivityJSON(t *testing.T) {
	b, _, _ := testServer(t)
	b.login()
	b.do(fiber.MethodPost, "/company/", url.Values{"name": {"Acme"}})

	resp := b.do(fiber.MethodGet, "/activity?format=json", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out Controllers.ActivityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, Screens.CompanyKey, out.Entries[0].Resource)

	doc := b.page("/activity?resource=company")
	assert.Equal(t, 1, doc.Find("#records tbody tr").Length())

	resp = b.do(fiber.MethodGet, "/activity?date_from=yesterday", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
