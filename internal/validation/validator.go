// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// FieldError is one failed constraint on a request field.
type FieldError struct {
	// Field is the JSON path of the field, e.g. item_ids[1].
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Errors lists every failed constraint of one request. A nil or empty
// Errors means the request is valid.
type Errors []FieldError

// Error joins the field messages.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Message
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failed field paths in order.
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i := range e {
		fields[i] = e[i].Field
	}
	return fields
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Fields are reported by their JSON
// names and the "metric" tag accepts any name similarity.Parse resolves.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		if err := v.RegisterValidation("metric", isMetric); err != nil {
			panic(fmt.Sprintf("register metric validator: %v", err))
		}
		instance = v
	})
	return instance
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// isMetric checks sentiment inline parameters against neutral defaults.
func isMetric(fl validator.FieldLevel) bool {
	_, err := similarity.Parse(fl.Field().String(), similarity.Options{
		Threshold: 4,
		MaxRating: 5,
		Alpha:     0.5,
		Inner:     similarity.NameGenreJaccard,
	})
	return err == nil
}

// Check validates the struct pointed to by v.
func Check(v any) Errors {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return Errors{{Field: "request", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fes))
	for i, fe := range fes {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	f, p := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "metric":
		return f + " must name a known similarity metric"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, p)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", f, p)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", f, p)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", f, p, unit(fe.Kind()))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", f, p, unit(fe.Kind()))
	}
	return fmt.Sprintf("%s failed %s validation", f, fe.Tag())
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	}
	return ""
}
