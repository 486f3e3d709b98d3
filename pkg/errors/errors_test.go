package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeValidation)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("validation errors should allow details")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "fetch rates")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be matchable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeNotFound, "product not found")
	outer := fmt.Errorf("loading catalog: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not-found error, got %v", typed)
	}
}

func TestSentinelMatchingWithErrorsIs(t *testing.T) {
	sentinel := New(CodeStateConflict, "shipping not confirmed")
	got := fmt.Errorf("checkout: %w", New(CodeStateConflict, "shipping not confirmed"))

	if !stdErrors.Is(got, sentinel) {
		t.Fatal("expected sentinel to match same code and message")
	}

	other := New(CodeStateConflict, "different message")
	if stdErrors.Is(got, other) {
		t.Fatal("expected mismatched message not to match")
	}
}
