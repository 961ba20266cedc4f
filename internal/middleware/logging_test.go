package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/replan/internal/request"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		writeBody     bool
	}{
		{name: "GET plan", method: http.MethodGet, path: "/api/v1/plans/2026-10-19", handlerStatus: http.StatusOK},
		{name: "implicit 200 on write", method: http.MethodGet, path: "/healthz", handlerStatus: 0, writeBody: true},
		{name: "PUT profile created", method: http.MethodPut, path: "/api/v1/profile", handlerStatus: http.StatusCreated},
		{name: "not found", method: http.MethodGet, path: "/notfound", handlerStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.handlerStatus != 0 {
					w.WriteHeader(tt.handlerStatus)
				}
				if tt.writeBody {
					_, _ = w.Write([]byte("ok"))
				}
			})

			core, logs := observer.New(zap.InfoLevel)
			w := httptest.NewRecorder()
			Logging(zap.New(core))(handler).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			want := tt.handlerStatus
			if want == 0 {
				want = http.StatusOK
			}
			entries := logs.FilterMessage("http_request").All()
			if len(entries) != 1 {
				t.Fatalf("Expected one http_request entry, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["status_code"] != int64(want) {
				t.Errorf("Logged status_code %v, want %d", fields["status_code"], want)
			}
			if fields["path"] != tt.path {
				t.Errorf("Logged path %v, want %s", fields["path"], tt.path)
			}
		})
	}
}

func TestStatusRecorder_FirstWriteWins(t *testing.T) {
	t.Parallel()

	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.statusCode != http.StatusCreated {
		t.Errorf("Expected first status to stick, got %d", rec.statusCode)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	incoming := uuid.NewString()
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generated when missing"},
		{name: "reused when valid", header: incoming, wantSame: true},
		{name: "replaced when malformed", header: "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = request.RequestID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(request.RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			RequestID(handler).ServeHTTP(w, req)

			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("Context request ID %q is not a UUID", seen)
			}
			if got := w.Header().Get(request.RequestIDHeader); got != seen {
				t.Errorf("Response header %q, context %q", got, seen)
			}
			if tt.wantSame && seen != tt.header {
				t.Errorf("Expected incoming ID %q to be reused, got %q", tt.header, seen)
			}
			if !tt.wantSame && seen == tt.header {
				t.Errorf("Expected a fresh ID, got %q", seen)
			}
		})
	}
}
