package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("validation failed")

// Form is a request struct whose fields carry `validate` rules. A `msg`
// tag sets the user-facing text for the field; fields without one fall
// back to the message of the failing tag.
type Form interface {
	FormName() string
}

// FieldError carries the single user-facing message of the first failing field.
type FieldError struct {
	Form    string
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return ErrInvalid }

var customTags = map[string]func(string) bool{
	"name":           Name,
	"phone":          Phone,
	"in_mobile":      IndianMobile,
	"gradyear":       GradYear,
	"safetext":       SafeText,
	"emailaddr":      EmailAddress,
	"personal_email": PersonalEmail,
}

var tagMessages = map[string]string{
	"emailaddr":      MsgInvalidEmail,
	"personal_email": MsgDisposableEmail,
	"in_mobile":      MsgInvalidMobile,
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func instance() *validator.Validate {
	engineOnce.Do(func() {
		engine = newEngine()
	})
	return engine
}

func newEngine() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	for tag, check := range customTags {
		check := check
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	}
	return v
}

// Struct validates f and reports the first failing field in declaration
// order, never an aggregate.
func Struct(f Form) error {
	err := instance().Struct(f)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return &FieldError{Form: f.FormName(), Field: fe.Field(), Message: messageFor(f, fe)}
}

func messageFor(f Form, fe validator.FieldError) string {
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if msg := sf.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid."
}

// Message extracts the user-facing text of a validation error.
func Message(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return ""
}
