package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ResaleEngine/internal/apierror"
	"ResaleEngine/internal/appraisal"
)

// AnalyzeRequest is the body of POST /api/v1/analyze. When sold_prices is
// omitted the comps for query are looked up instead.
type AnalyzeRequest struct {
	Query        string    `json:"query" validate:"omitempty,max=200"`
	SoldPrices   []float64 `json:"sold_prices" validate:"omitempty,max=10000,dive,gt=0"`
	ActivePrices []float64 `json:"active_prices" validate:"omitempty,max=10000,dive,gt=0"`
	Condition    string    `json:"condition" validate:"omitempty,max=16"`
	Profit       *float64  `json:"profit"`
	Preset       string    `json:"preset" validate:"omitempty,max=32"`
	LocalFactor  *float64  `json:"local_factor" validate:"omitempty,gt=0,lte=1"`
}

func (a AnalyzeRequest) toService() appraisal.Request {
	return appraisal.Request{
		Query:       a.Query,
		Sold:        a.SoldPrices,
		Active:      a.ActivePrices,
		Condition:   a.Condition,
		Profit:      a.Profit,
		Preset:      a.Preset,
		LocalFactor: a.LocalFactor,
	}
}

// BatchRequest is the body of POST /api/v1/analyze/batch.
type BatchRequest struct {
	Items []AnalyzeRequest `json:"items" validate:"required,min=1,dive"`
}

// BatchItem is one entry of a batch response; exactly one of Appraisal and
// Error is set.
type BatchItem struct {
	Index     int                  `json:"index"`
	Appraisal *appraisal.Appraisal `json:"appraisal,omitempty"`
	Error     *apierror.APIError   `json:"error,omitempty"`
}

// BatchResponse is the body returned for a batch.
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator output to an API error.
func validationError(err error) *apierror.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.InvalidRequest(err)
	}
	fields := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierror.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return apierror.Validation(fields)
}

// fieldPath drops the root struct name from the namespace, e.g.
// "items[0].sold_prices[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
