package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YaleSpinup/apierror"
	pkgerrors "github.com/pkg/errors"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err  error
		code int
		body string
	}{
		{apierror.New(apierror.ErrBadRequest, "bad", nil), http.StatusBadRequest, "bad"},
		{apierror.New(apierror.ErrNotFound, "missing", nil), http.StatusNotFound, "missing"},
		{apierror.New(apierror.ErrForbidden, "nope", nil), http.StatusForbidden, "nope"},
		{apierror.New(apierror.ErrConflict, "conflict", nil), http.StatusConflict, "conflict"},
		{apierror.New(apierror.ErrLimitExceeded, "slow down", nil), http.StatusTooManyRequests, "slow down"},
		{apierror.New(apierror.ErrInternalError, "boom", nil), http.StatusInternalServerError, "boom"},
		{pkgerrors.Wrap(apierror.New(apierror.ErrNotFound, "wrapped", nil), "context"), http.StatusNotFound, "wrapped"},
		{errors.New("plain"), http.StatusInternalServerError, "plain"},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		handleError(rr, tt.err)

		if rr.Code != tt.code {
			t.Errorf("expected status %d for %s, got %d", tt.code, tt.err, rr.Code)
		}

		if rr.Body.String() != tt.body {
			t.Errorf("expected body %q for %s, got %q", tt.body, tt.err, rr.Body.String())
		}
	}
}
