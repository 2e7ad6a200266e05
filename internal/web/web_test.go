package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayapps/waysite/internal/errors"
)

func TestWriteError(t *testing.T) {
	t.Run("error with status code", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteError(rr, errors.Locked("Account locked"))

		assert.Equal(t, 423, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, errors.KindLocked, body["error"])
		assert.Equal(t, "Account locked", body["message"])
	})

	t.Run("unexpected error hides detail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteError(rr, assert.AnError)

		assert.Equal(t, 500, rr.Code)
		assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	})
}

func TestDecodeValidate(t *testing.T) {
	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	t.Run("valid", func(t *testing.T) {
		var p payload
		err := DecodeValidate(strings.NewReader(`{"email":"a@example.com","password":"Passw0rd"}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", p.Email)
	})

	t.Run("invalid json", func(t *testing.T) {
		var p payload
		err := DecodeValidate(strings.NewReader(`{bad`), &p)
		require.Error(t, err)
	})

	t.Run("field errors reported per field", func(t *testing.T) {
		var p payload
		err := DecodeValidate(strings.NewReader(`{"email":"nope","password":"short"}`), &p)
		require.Error(t, err)
		e, ok := err.(*errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
		assert.Contains(t, e.Fields, "email")
		assert.Contains(t, e.Fields, "password")
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", nil, false, "10.0.0.1"},
		{"spoofed header ignored", "10.0.0.1:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, false, "10.0.0.1"},
		{"real ip honored behind proxy", "10.0.0.1:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, true, "1.2.3.4"},
		{"forwarded for behind proxy", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, true, "5.6.7.8"},
		{"garbage header falls through", "10.0.0.1:1234", map[string]string{"X-Real-IP": "not-an-ip"}, true, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trustProxy))
		})
	}
}
