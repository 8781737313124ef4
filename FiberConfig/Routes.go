package FiberConfig

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"Prapatti/Config"
	"Prapatti/Controllers"
	"Prapatti/Models"
	"Prapatti/Screens"
	"Prapatti/Session"
	"Prapatti/middleware"
)

// Server is everything the routes need.
type Server struct {
	Config     *Config.Config
	Console    *Controllers.Console
	Sessions   *Session.Manager
	Workspaces *Screens.Workspaces
}

// Engine loads the page templates with the helpers they use.
func Engine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("money", money)
	engine.AddFunc("day", Models.DayPart)
	engine.AddFunc("join", func(items []string) string { return strings.Join(items, ", ") })
	engine.AddFunc("contains", func(items []string, item string) bool { return slices.Contains(items, item) })
	engine.AddFunc("isoDay", func(t time.Time) string { return t.Format("2006-01-02 15:04") })
	return engine
}

func money(v any) string {
	switch n := v.(type) {
	case decimal.Decimal:
		return n.StringFixed(2)
	case float64:
		return decimal.NewFromFloat(n).StringFixed(2)
	case int:
		return decimal.NewFromInt(int64(n)).StringFixed(2)
	}
	return fmt.Sprint(v)
}

// ErrorHandler answers with plain text. Screens show REST failures inline,
// so only routing and rendering errors end up here.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := fiber.ErrInternalServerError.Message
	var e *fiber.Error
	if errors.As(err, &e) {
		code, message = e.Code, e.Message
	} else {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}

// NewApp builds the console app with its middleware and routes.
func NewApp(s Server) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        Engine(s.Config.TemplatesDir),
		ErrorHandler: ErrorHandler,
	})
	app.Use(middleware.RequestLogger(s.Config.LogDir))
	app.Use(middleware.ErrorLogger(s.Config.LogDir))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With",
		AllowCredentials: false,
		MaxAge:           300,
	}))

	SetupRoutes(app, s)
	return app
}

func SetupRoutes(app *fiber.App, s Server) {
	con := s.Console

	app.Get("/health", con.Health)
	app.Static("/static", "static/", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	app.Use(middleware.Sessions(s.Sessions, s.Workspaces, s.Config.SessionTTL, s.Config.CookieSecure))

	app.Get("/", middleware.RedirectIfToken("/order"), con.LoginPage)
	app.Post("/", middleware.RedirectIfToken("/order"), con.Login)
	app.Get("/register", con.RegisterPage)
	app.Post("/register", con.Register)
	app.Get("/logout", con.Logout)
	app.Post("/logout", con.Logout)

	protected := app.Group("/", middleware.RequireToken())
	protected.Get("/home", func(c *fiber.Ctx) error { return c.Redirect("/order") })
	protected.Get("/activity", con.Activity)
	con.MountScreens(protected)
}
