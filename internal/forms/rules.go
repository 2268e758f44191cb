// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package forms

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Required rejects empty or whitespace-only values.
func Required(key string) Rule {
	return func(v string, _ Context) string {
		if strings.TrimSpace(v) == "" {
			return key
		}
		return ""
	}
}

// Email rejects values the mail address parser will not accept.
func Email(key string) Rule {
	return func(v string, _ Context) string {
		if _, err := mail.ParseAddress(v); err != nil {
			return key
		}
		return ""
	}
}

// MinLen rejects values shorter than n runes.
func MinLen(n int, key string) Rule {
	return func(v string, _ Context) string {
		if utf8.RuneCountInString(v) < n {
			return key
		}
		return ""
	}
}

// MinInt rejects non-numeric values and values below n.
func MinInt(n int, key string) Rule {
	return func(v string, _ Context) string {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || i < n {
			return key
		}
		return ""
	}
}

// MaxSeats rejects seat counts above the event's remaining seats. The
// ceiling comes from the Context so one schema serves every event. A
// zero ceiling skips the check.
func MaxSeats(key string) Rule {
	return func(v string, ctx Context) string {
		if ctx.MaxSeats <= 0 {
			return ""
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || i > ctx.MaxSeats {
			return key
		}
		return ""
	}
}

// FutureDate rejects datetime-local values that are malformed or not
// strictly after the Context clock.
func FutureDate(key string) Rule {
	return func(v string, ctx Context) string {
		t, err := time.ParseInLocation("2006-01-02T15:04", v, time.Local)
		if err != nil {
			return key
		}
		if !t.After(ctx.now()) {
			return key
		}
		return ""
	}
}
