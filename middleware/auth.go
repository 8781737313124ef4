package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"Prapatti/Notifications"
	"Prapatti/Screens"
	"Prapatti/Session"
)

const (
	SessionCookie = "sid"

	localBinding   = "session-binding"
	localSession   = "session"
	localWorkspace = "workspace"
	localUser      = "user"

	ExpiredMessage = "Session expired, please log in again."
)

// Sessions binds the sid cookie to a session and its workspace, issuing a
// fresh id when the cookie is missing or unknown.
func Sessions(manager *Session.Manager, workspaces *Screens.Workspaces, ttl time.Duration, secure bool) fiber.Handler {
	b := &binding{manager: manager, workspaces: workspaces, ttl: ttl, secure: secure}
	return func(c *fiber.Ctx) error {
		s, issued := manager.Resolve(c.Cookies(SessionCookie))
		if issued {
			b.setCookie(c, s)
		}

		c.Locals(localBinding, b)
		b.bind(c, s)
		return c.Next()
	}
}

// Reissue moves the browser onto a fresh session id and workspace, and
// returns the new session. Login calls it before storing the token.
func Reissue(c *fiber.Ctx) *Session.Session {
	b, ok := c.Locals(localBinding).(*binding)
	old := CurrentSession(c)
	if !ok || old == nil {
		return old
	}
	s := b.manager.Rotate(old)
	b.workspaces.Evict(old.ID)
	b.setCookie(c, s)
	b.bind(c, s)
	return s
}

type binding struct {
	manager    *Session.Manager
	workspaces *Screens.Workspaces
	ttl        time.Duration
	secure     bool
}

func (b *binding) setCookie(c *fiber.Ctx, s *Session.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HTTPOnly: true,
		Secure:   b.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(b.ttl),
	})
}

func (b *binding) bind(c *fiber.Ctx, s *Session.Session) {
	c.Locals(localSession, s)
	c.Locals(localWorkspace, b.workspaces.For(s))
	if claims, err := s.Claims(); err == nil {
		c.Locals(localUser, claims)
	} else {
		c.Locals(localUser, nil)
	}
}

// RequireToken sends browsers without a stored token to the login page.
// A session the REST service rejected gets a toast saying so.
func RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if s != nil && s.HasToken() {
			return c.Next()
		}
		if s != nil && s.TakeExpired() {
			CurrentWorkspace(c).Toasts.Push(ExpiredMessage, Notifications.Error)
		}
		return c.Redirect("/")
	}
}

// RedirectIfToken skips the login screen for sessions that are logged in.
func RedirectIfToken(to string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s := CurrentSession(c); s != nil && s.HasToken() {
			return c.Redirect(to)
		}
		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) *Session.Session {
	s, _ := c.Locals(localSession).(*Session.Session)
	return s
}

func CurrentWorkspace(c *fiber.Ctx) *Screens.Workspace {
	w, _ := c.Locals(localWorkspace).(*Screens.Workspace)
	return w
}

// CurrentUser returns the display claims of the logged in user, if any.
func CurrentUser(c *fiber.Ctx) (Session.Claims, bool) {
	claims, ok := c.Locals(localUser).(Session.Claims)
	return claims, ok
}
