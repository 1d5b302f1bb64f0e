package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errSentinel = errors.New("sentinel")

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ConflictError(errSentinel, "conflict"))

	if !Is(err, CategoryDataConflict) {
		t.Fatal("expected DataConflict category")
	}
	if Is(err, CategoryForbidden) {
		t.Fatal("unexpected Forbidden category")
	}
	if !errors.Is(err, errSentinel) {
		t.Fatal("the underlying sentinel must stay reachable")
	}
	if Is(errSentinel, CategoryDataConflict) {
		t.Fatal("plain errors have no category")
	}
}

func TestIsInternalError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{BadRequestError(nil, "x"), false},
		{UnAuthorizedError(nil, "x"), false},
		{ForbiddenError(nil, "x"), false},
		{ResourceNotFoundError(nil, "x"), false},
		{ConflictError(nil, "x"), false},
		{DependencyError(nil, "db"), true},
		{GeneralError(nil), true},
		{errors.New("plain"), true},
	}
	for _, tt := range tests {
		if got := IsInternalError(tt.err); got != tt.want {
			t.Errorf("IsInternalError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		cat  Category
		want int
	}{
		{CategoryDataError, http.StatusBadRequest},
		{CategoryUnauthorized, http.StatusUnauthorized},
		{CategoryForbidden, http.StatusForbidden},
		{CategoryResourceNotFound, http.StatusNotFound},
		{CategoryDataConflict, http.StatusConflict},
		{CategoryDependencyFailure, http.StatusBadGateway},
		{CategoryGeneralError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := (ServiceError{Category: tt.cat}).StatusCode(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.cat, got, tt.want)
		}
	}
}

func TestError_FallbackMessage(t *testing.T) {
	err := ResourceNotFoundError(nil, "claim does not exist")
	if err.Error() != "resource not found: claim does not exist" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
