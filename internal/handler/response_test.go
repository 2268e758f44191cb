package handler

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"testing"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("id"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"/bookings", "/bookings"},
		{"/events/e1?seats=2", "/events/e1?seats=2"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"bookings", "/"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.raw); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormValues(t *testing.T) {
	values := url.Values{
		"email":    {"tari@senja.id"},
		"password": {"hunter22"},
		"name":     {"Tari"},
	}
	got := formValues(values, "email", "name")

	if got["email"] != "tari@senja.id" {
		t.Errorf("email = %q", got["email"])
	}
	if got["name"] != "Tari" {
		t.Errorf("name = %q", got["name"])
	}
	if _, ok := got["password"]; ok {
		t.Error("password must not be echoed back")
	}
}

func TestAPIStatus(t *testing.T) {
	if got := apiStatus(&api.Error{Status: http.StatusConflict}); got != http.StatusConflict {
		t.Errorf("apiStatus = %d, want 409", got)
	}
	if got := apiStatus(errors.New("connection refused")); got != 0 {
		t.Errorf("apiStatus for transport error = %d, want 0", got)
	}
	if got := apiStatus(nil); got != 0 {
		t.Errorf("apiStatus(nil) = %d, want 0", got)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	// A rejection message from the API passes through verbatim,
	// untranslated.
	rejection := &api.Error{Status: http.StatusBadRequest, Message: "Kursi tidak mencukupi"}
	if got := apiErrorMessage("en", rejection); got != "Kursi tidak mencukupi" {
		t.Errorf("apiErrorMessage = %q, want verbatim rejection", got)
	}

	// Transport failures get the generic localized banner.
	generic := apiErrorMessage("id", errors.New("dial tcp: connection refused"))
	if generic == "" || generic == "error.request_failed" {
		t.Errorf("apiErrorMessage for transport error = %q, want localized text", generic)
	}

	// An empty rejection message also falls back.
	empty := apiErrorMessage("id", &api.Error{Status: http.StatusBadGateway})
	if empty != generic {
		t.Errorf("empty rejection = %q, want generic banner %q", empty, generic)
	}
}
