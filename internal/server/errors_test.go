package server

import (
	"errors"
	"net/http"
	"testing"

	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		payload string
	}{
		{"no contact", invoicedomain.ErrNoContact, http.StatusBadRequest, "no_contact"},
		{"billed entry delete", timeentrydomain.ErrEntryBilled, http.StatusBadRequest, "validation_error"},
		{"invoiced service delete", catalogdomain.ErrInvoiced, http.StatusBadRequest, "validation_error"},
		{"mixed clients", invoicedomain.ErrMixedClients, http.StatusBadRequest, "validation_error"},
		{"not found", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"duplicate signup", authdomain.ErrUserExists, http.StatusConflict, "conflict"},
		{"send failed", invoicedomain.ErrSendFailed, http.StatusBadGateway, "transport_failure"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.payload, payload.Type)
		})
	}
}

func TestMapError_SendFailureWrapped(t *testing.T) {
	wrapped := errors.Join(invoicedomain.ErrSendFailed, errors.New("dial tcp: refused"))
	status, payload := mapError(wrapped)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "transport_failure", payload.Type)
}
