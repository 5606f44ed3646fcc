// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no error", nil, http.StatusOK},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden},
		{"not found", NotFound(errors.New("missing")), http.StatusNotFound},
		{"custom status", HTTPError(errors.New("teapot"), http.StatusTeapot), http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})
			handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"name":"x"}`), &v))
	assert.Equal(t, "x", v.Name)

	err := ParseJSON(strings.NewReader(`{"name":"x","bogus":1}`), &v)
	assert.Error(t, err)
}
