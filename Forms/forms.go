package Forms

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

// FormKey holds errors that belong to the whole form rather than one field.
const FormKey = "_form"

// Errors maps a field key (its form name, dotted for nested fields) to the
// message of the first rule it failed.
type Errors map[string]string

// Messages overrides the default text for a "field.tag" pair, e.g.
// "qty.minval": "Quantity must be greater than 0".
type Messages map[string]string

var (
	validate   *validator.Validate
	translator ut.Translator

	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`\d`)
	specialChars  = regexp.MustCompile(`[\W_]`)
	indexSuffix   = regexp.MustCompile(`\[\d+\]`)
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	rules := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{"num", isNumber, "{0} must be a number"},
		{"minval", atLeast, "{0} must be at least {1}"},
		{"password", isComplexPassword, "{0} must include uppercase, lowercase, number & special char"},
		{"mobile", isMobile, "{0} must be a valid 10-digit mobile number"},
	}
	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			panic(err)
		}
		registerMessage(rule.tag, rule.message)
	}
}

func registerMessage(tag, message string) {
	err := validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			text, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return text
		},
	)
	if err != nil {
		panic(err)
	}
}

// Validate runs the form's `validate` tags and returns nil when every field
// passed.
func Validate(form any, messages Messages) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Errors{FormKey: err.Error()}
	}

	out := Errors{}
	for _, fe := range fieldErrors {
		key := fieldKey(fe.Namespace())
		if _, seen := out[key]; seen {
			continue
		}
		if message, ok := messages[key+"."+fe.Tag()]; ok {
			out[key] = message
			continue
		}
		out[key] = fe.Translate(translator)
	}
	return out
}

// Bind decodes the submitted form body into out.
func Bind(c *fiber.Ctx, out any) Errors {
	if err := c.BodyParser(out); err != nil {
		return Errors{FormKey: "Could not read the submitted form"}
	}
	return nil
}

// fieldKey turns "OrderForm.size.width" or "OrderForm.platforms[1]" into
// "size.width" and "platforms".
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexSuffix.ReplaceAllString(namespace, "")
}

func isNumber(fl validator.FieldLevel) bool {
	_, ok := number(fl.Field())
	return ok
}

func atLeast(fl validator.FieldLevel) bool {
	value, ok := number(fl.Field())
	if !ok {
		return false
	}
	bound, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	return value >= bound
}

func number(field reflect.Value) (float64, bool) {
	switch field.Kind() {
	case reflect.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(field.String()), 64)
		return v, err == nil
	case reflect.Float32, reflect.Float64:
		return field.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(field.Int()), true
	}
	return 0, false
}

func isComplexPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return len(value) >= 8 &&
		lowerPattern.MatchString(value) &&
		upperPattern.MatchString(value) &&
		digitPattern.MatchString(value) &&
		specialChars.MatchString(value)
}

func isMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}
