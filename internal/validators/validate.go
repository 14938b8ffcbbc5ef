package validators

import (
	stderrors "errors"
	"reflect"
	"strings"

	apperrors "realestate-catalog/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the validate tags of s and reports the first failing field.
func checkStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.Validation("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
	return apperrors.Validation("%v", err)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// setButBlank reports an optional field that was sent as whitespace only.
func setButBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
