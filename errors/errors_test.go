package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(http.StatusBadRequest, "test message", nil)

	if err.Code != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, err.Code)
	}

	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}

	if err.Error() != "test message" {
		t.Errorf("expected error string 'test message', got '%s'", err.Error())
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := New(http.StatusInternalServerError, "cause error", nil)
	err := New(http.StatusBadRequest, "test message", cause)

	expected := "test message: cause error"
	if err.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, err.Error())
	}

	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "not found error",
			err:      NotFound("op", nil, "not found"),
			expected: true,
		},
		{
			name:     "wrapped not found error",
			err:      fmt.Errorf("outer: %w", NotFound("op", nil, "not found")),
			expected: true,
		},
		{
			name:     "other error",
			err:      InvalidReference("op", nil, "bad reference"),
			expected: false,
		},
		{
			name:     "non-custom error",
			err:      fmt.Errorf("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.expected {
				t.Errorf("IsNotFound() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsConflict(t *testing.T) {
	if !IsConflict(Conflict("op", nil, "already exists")) {
		t.Error("expected conflict error to be detected")
	}
	if IsConflict(NotFound("op", nil, "missing")) {
		t.Error("did not expect not-found error to be a conflict")
	}
}

func TestFailureCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
	}{
		{"invalid reference", InvalidReference("op", nil, "m"), http.StatusBadRequest},
		{"download failed", DownloadFailed("op", nil, "m"), http.StatusBadGateway},
		{"transcription failed", TranscriptionFailed("op", nil, "m"), http.StatusBadGateway},
		{"acquisition failed", AcquisitionFailed("op", nil, "m"), http.StatusBadGateway},
		{"configuration", Configuration("op", nil, "m"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.err.Code)
			}
		})
	}
}
