package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdin/denom/internal/core"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := resp.Data.(map[string]any)
	if data["hello"] != "world" {
		t.Errorf("data = %v", resp.Data)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestError_CodedError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, core.WrapError(core.ErrInsufficientRange, errors.New("2 points needed")))

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "INSUFFICIENT_RANGE" {
		t.Errorf("code = %q", resp.Error.Code)
	}
	if resp.Error.Cause != "2 points needed" {
		t.Errorf("cause = %q", resp.Error.Cause)
	}
}

func TestError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusInternalServerError, errors.New("boom"))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", resp.Error.Code)
	}
	// Internal detail must not leak
	if resp.Error.Cause != "" {
		t.Errorf("cause leaked: %q", resp.Error.Cause)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrSeriesNotFound, http.StatusNotFound},
		{core.ErrJobNotFound, http.StatusNotFound},
		{core.ErrInsufficientRange, http.StatusBadRequest},
		{core.ErrInvalidPrice, http.StatusBadRequest},
		{core.ErrTickerInvalid, http.StatusBadRequest},
		{core.ErrStatsUnavailable, http.StatusServiceUnavailable},
		{core.ErrInsightDisabled, http.StatusServiceUnavailable},
		{core.ErrSourceFailed, http.StatusBadGateway},
		{core.ErrInsightFailed, http.StatusBadGateway},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
