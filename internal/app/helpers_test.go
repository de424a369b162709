package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestReadIDParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "positive", value: "42", want: 42},
		{name: "int4 max", value: "2147483647", want: 2147483647},
		{name: "beyond int4", value: "2147483648", want: 0},
		{name: "zero", value: "0", want: 0},
		{name: "negative", value: "-3", want: 0},
		{name: "not a number", value: "abc", want: 0},
		{name: "missing", value: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.value)

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			assert.Equal(t, tt.want, readIDParam(r))
		})
	}
}
