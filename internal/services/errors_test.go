package services_test

import (
	"errors"
	"net/http"
	"testing"

	"flickvault/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrModelOutput, "generator", "parse", "missing name field", nil)
	if !errors.Is(err, services.ErrModelOutput) {
		t.Fatalf("expected ErrModelOutput, got %v", err)
	}
	want := "invalid model output: generator: parse: missing name field"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := services.Wrap(services.ErrModelOutput, "generator", "decode", "", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive")
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "tmdb", "search", "", errors.New("boom"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrValidation, "", "", "bad input", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrModelOutput, "", "", "garbled", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrNotFound, "", "", "", nil), http.StatusNotFound},
		{services.Wrap(services.ErrConflict, "", "", "", nil), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
