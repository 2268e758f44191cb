// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package forms validates browser form submissions before they reach
// the events API. Schemas are declared once at package level; anything
// request-dependent (the clock, the seat ceiling of the event being
// booked) travels in a Context passed at validation time.
package forms

import (
	"net/url"
	"strconv"
	"time"
)

// Context carries the request-scoped inputs some rules need.
type Context struct {
	// Now anchors date comparisons. The zero value means time.Now.
	Now time.Time
	// MaxSeats is the seat ceiling for booking forms. Zero disables
	// the upper-bound check.
	MaxSeats int
}

func (c Context) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// Rule checks a single field value. It returns an i18n message key, or
// "" when the value passes.
type Rule func(value string, ctx Context) string

// Field binds a form field name to its rules. Rules run in order and
// the first failure wins, so put Required first.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered set of field validations.
type Schema []Field

// Errors maps field names to i18n message keys.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Validate runs every field's rules against the submitted values.
func (s Schema) Validate(values url.Values, ctx Context) Errors {
	errs := Errors{}
	for _, f := range s {
		v := values.Get(f.Name)
		for _, rule := range f.Rules {
			if key := rule(v, ctx); key != "" {
				errs[f.Name] = key
				break
			}
		}
	}
	return errs
}

// Seats parses the submitted seat count, defaulting to 1 when absent
// so the detail page can pre-fill a single seat.
func Seats(values url.Values) int {
	raw := values.Get("seats")
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
