// Package forms binds submitted fields onto form structs and reports
// field-level validation errors.
package forms

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FormError is the key used for errors that do not belong to a single field.
const FormError = "_form"

// Errors maps a form field name to its message.
type Errors map[string]string

var (
	setupOnce  sync.Once
	translator ut.Translator
)

// Setup registers English messages and form field names on gin's validator.
// Bind calls it on first use.
func Setup() {
	setupOnce.Do(func() {
		english := en.New()
		uni := ut.New(english, english)
		translator, _ = uni.GetTranslator("en")

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = en_translations.RegisterDefaultTranslations(v, translator)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Bind fills form from the request and validates it.
func Bind(c *gin.Context, form any) (bool, Errors) {
	Setup()
	err := c.ShouldBind(form)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		errs := make(Errors, len(verrs))
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = fe.Translate(translator)
			}
		}
		return false, errs
	}
	return false, Errors{FormError: err.Error()}
}

// Add records a message for field, keeping any message already there.
func (e *Errors) Add(field, message string) {
	if *e == nil {
		*e = Errors{}
	}
	if _, ok := (*e)[field]; !ok {
		(*e)[field] = message
	}
}
