package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

var (
	phoneRegex  = regexp.MustCompile(`^[6-9]\d{9}$`)
	aadharRegex = regexp.MustCompile(`^\d{12}$`)
	panRegex    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// newValidator builds the request validator. decimal.Decimal fields are
// registered as a custom type so the numeric tags (gt, gte) apply to them,
// and the Indian KYC formats get dedicated tags.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("indian_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("aadhar", func(fl validator.FieldLevel) bool {
		return aadharRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panRegex.MatchString(fl.Field().String())
	})

	return v
}

// decodeAndValidate parses the JSON body into request and runs validation
func decodeAndValidate(r *http.Request, v *validator.Validate, request interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		return customError.WrapValidationError(err)
	}
	if err := v.Struct(request); err != nil {
		return customError.WrapValidationError(err)
	}
	return nil
}

// writeError maps business error codes to HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	var status int
	switch businessErr.Code {
	case customError.ErrCodeValidation,
		customError.ErrCodeInvalidDate,
		customError.ErrCodeInvalidPaymentAmount:
		status = http.StatusBadRequest
	case customError.ErrCodeCustomerNotFound,
		customError.ErrCodeLoanNotFound,
		customError.ErrCodePaymentNotFound:
		status = http.StatusNotFound
	case customError.ErrCodeLoanNotActive,
		customError.ErrCodeOverpayment,
		customError.ErrCodeCustomerHasActiveLoans,
		customError.ErrCodeCustomerInactive:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	response.Error(w, status, businessErr.Code, businessErr.Message, businessErr.Err)
}
