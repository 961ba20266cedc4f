package request

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/benvon/replan/internal/models"
)

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		wantIP  string
	}{
		{"x-forwarded-for", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "", "1.2.3.4"},
		{"x-forwarded-for first hop", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8 "}, "", "1.2.3.4"},
		{"empty first hop falls through", map[string]string{"X-Forwarded-For": " , 5.6.7.8", "X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"remote addr port stripped", nil, "10.0.0.1:12345", "10.0.0.1"},
		{"remote addr ipv6", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr without port", nil, "10.0.0.2", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			if got := ClientIP(r); got != tt.wantIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()
	u := &models.User{ID: "user-1", Email: "a@b.c"}
	r := httptest.NewRequest("GET", "/", nil).WithContext(WithUser(context.Background(), u))
	if got := UserFromContext(r); got != u {
		t.Errorf("UserFromContext() = %p, want %p", got, u)
	}
	if got := UserID(r); got != "user-1" {
		t.Errorf("UserID() = %q, want user-1", got)
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no user", context.Background()},
		{"wrong type", context.WithValue(context.Background(), UserContextKey(), "not a user")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil).WithContext(tt.ctx)
			if got := UserFromContext(r); got != nil {
				t.Errorf("UserFromContext() = %+v, want nil", got)
			}
			if got := UserID(r); got != "" {
				t.Errorf("UserID() = %q, want empty", got)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID() = %q on empty context", got)
	}
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Errorf("RequestID() = %q, want req-42", got)
	}
}
