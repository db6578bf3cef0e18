package common_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

type envelope struct {
	Error common.ErrorBody `json:"error"`
}

func TestWriteErrorAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	common.WriteError(rr, common.NotFound("Invoice"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.Equal(t, "Invoice not found", body.Error.Message)
}

func TestWriteErrorWrapped(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("outer"), common.Invalid("quantity must be positive"))
	common.WriteError(rr, wrapped)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "VALIDATION", body.Error.Code)
}

func TestWriteErrorUnknown(t *testing.T) {
	rr := httptest.NewRecorder()
	common.WriteError(rr, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL", body.Error.Code)
	require.Equal(t, "internal error", body.Error.Message)
}

func TestDecodeValidRejectsBadInput(t *testing.T) {
	type form struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing required field", `{"email":"a@b.example"}`},
		{"bad email", `{"name":"x","email":"nope"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst form
			err := common.DecodeValid(req, &dst)
			require.Error(t, err)

			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","email":"a@b.example"}`))
	var dst form
	require.NoError(t, common.DecodeValid(req, &dst))
}
