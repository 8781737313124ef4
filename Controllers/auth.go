package Controllers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"Prapatti/Apis"
	"Prapatti/Forms"
	"Prapatti/Models"
	"Prapatti/Notifications"
	"Prapatti/middleware"
)

const authResource = "auth"

func (con *Console) authPage(c *fiber.Ctx, template, title string, form any, errs Forms.Errors, message string) error {
	data := con.page(c, title, "/"+template)
	data["Form"] = form
	data["FieldErrors"] = errs
	data["Error"] = message
	return c.Render(template, data, layout)
}

func (con *Console) LoginPage(c *fiber.Ctx) error {
	return con.authPage(c, "login", "Login", Models.LoginForm{}, nil, "")
}

// Login stores the token on a 200 envelope. Every other outcome stays on the
// login page with a message.
func (con *Console) Login(c *fiber.Ctx) error {
	var form Models.LoginForm
	if errs := Forms.Bind(c, &form); errs != nil {
		return con.authPage(c, "login", "Login", form, nil, errs[Forms.FormKey])
	}
	if errs := Forms.Validate(form, Forms.LoginMessages); errs != nil {
		form.Password = ""
		return con.authPage(c, "login", "Login", form, errs, "")
	}
	w := middleware.CurrentWorkspace(c)
	env, err := Apis.Login(c.UserContext(), w.Client, form)
	form.Password = ""
	message := ""
	switch {
	case err != nil:
		message = Apis.MessageOf(err, "Login failed!")
	case env.StatusCode == http.StatusOK:
		err = middleware.Reissue(c).SetToken(env.Data.Token)
		if err == nil {
			con.record(c, authResource, "login", "", nil, fiber.Map{"email": form.Email})
			return c.Redirect("/order")
		}
		message = "Login failed!"
	case env.StatusCode == http.StatusUnauthorized:
		message = env.Message
	default:
		message = "Login failed!"
	}

	con.record(c, authResource, "login", "", loginError(err, message), fiber.Map{"email": form.Email})
	return con.authPage(c, "login", "Login", form, nil, message)
}

func (con *Console) RegisterPage(c *fiber.Ctx) error {
	return con.authPage(c, "register", "Register", Models.RegisterForm{}, nil, "")
}

// Register sends new accounts back to the login page on 201.
func (con *Console) Register(c *fiber.Ctx) error {
	var form Models.RegisterForm
	if errs := Forms.Bind(c, &form); errs != nil {
		return con.authPage(c, "register", "Register", form, nil, errs[Forms.FormKey])
	}
	if errs := Forms.Validate(form, Forms.RegisterMessages); errs != nil {
		form.Password = ""
		return con.authPage(c, "register", "Register", form, errs, "")
	}

	w := middleware.CurrentWorkspace(c)
	env, err := Apis.Register(c.UserContext(), w.Client, form)
	form.Password = ""
	details := fiber.Map{"email": form.Email, "name": form.Name}
	switch {
	case err != nil:
		w.Toasts.Push(Apis.MessageOf(err, "Registration failed!"), Notifications.Error)
	case env.StatusCode == http.StatusCreated:
		w.Toasts.Push(env.Message, Notifications.Success)
		con.record(c, authResource, "register", "", nil, details)
		return c.Redirect("/")
	case env.StatusCode == http.StatusConflict:
		w.Toasts.Push(env.Message, Notifications.Error)
		err = &Apis.APIError{Status: env.StatusCode, Message: env.Message}
	default:
		w.Toasts.Push("Registration failed!", Notifications.Error)
		err = &Apis.APIError{Status: env.StatusCode, Message: "Registration failed!"}
	}

	con.record(c, authResource, "register", "", err, details)
	return con.authPage(c, "register", "Register", form, nil, "")
}

// Logout forgets the token and returns to the login page.
func (con *Console) Logout(c *fiber.Ctx) error {
	if err := middleware.CurrentSession(c).ClearToken(); err != nil {
		return err
	}
	con.record(c, authResource, "logout", "", nil, nil)
	return c.Redirect("/")
}

func loginError(err error, message string) error {
	if err != nil {
		return err
	}
	return &Apis.APIError{Message: message}
}
