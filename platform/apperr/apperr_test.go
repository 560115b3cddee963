package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:   http.StatusNotFound,
		KindValidation: http.StatusBadRequest,
		KindBadRequest: http.StatusBadRequest,
		KindConflict:   http.StatusConflict,
		KindInternal:   http.StatusInternalServerError,
		KindUnknown:    http.StatusBadRequest,
	}
	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %d: expected %d, got %d", kind, want, got)
		}
	}
}

func TestStorageAttachesCauseAsDetails(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("Error creating quote", cause)

	if err.Details != "connection reset" {
		t.Fatalf("expected cause in details, got %v", err.Details)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected storage error to unwrap to its cause")
	}
}

func TestGetKindFindsWrappedError(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("Quote not found"))
	if !Is(err, KindNotFound) {
		t.Fatalf("expected wrapped not found, got kind %d", GetKind(err))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to have unknown kind")
	}
}
