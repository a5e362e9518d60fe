package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
)

// egyptianMobile is an Egyptian mobile number: 010, 011, 012 or 015
// followed by eight digits.
var egyptianMobile = regexp.MustCompile(`^01[0125][0-9]{8}$`)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator:
// money (decimal string), positive_money and eg_mobile.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
			_, err := decimal.NewFromString(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("positive_money", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		_ = v.RegisterValidation("eg_mobile", func(fl validator.FieldLevel) bool {
			return egyptianMobile.MatchString(fl.Field().String())
		})
		v.RegisterTagNameFunc(jsonFieldName)
	})
}

// bindingViolations converts a binding error into one validation violation per field.
func bindingViolations(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidation("invalid request body").WithDetail("error", err.Error())
	}

	var out error
	for _, fe := range verrs {
		out = multierr.Append(out, apperror.NewValidation(fieldMessage(fe)).
			WithField(fe.Field()).
			WithDetail("rule", fe.Tag()))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("الحقل %s مطلوب", fe.Field())
	case "uuid":
		return fmt.Sprintf("الحقل %s يجب أن يكون معرفاً صالحاً", fe.Field())
	case "money", "positive_money":
		return fmt.Sprintf("الحقل %s يجب أن يكون مبلغاً صالحاً", fe.Field())
	case "datetime":
		return fmt.Sprintf("الحقل %s يجب أن يكون تاريخاً بالصيغة YYYY-MM-DD", fe.Field())
	case "eg_mobile":
		return "رقم فودافون كاش غير صحيح (يجب أن يكون رقم مصري)"
	case "oneof":
		return fmt.Sprintf("قيمة الحقل %s غير صالحة", fe.Field())
	default:
		return fmt.Sprintf("قيمة الحقل %s غير صالحة (%s)", fe.Field(), fe.Tag())
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
