package kit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"ok", `{"name":"milk"}`, false},
		{"unknown field", `{"name":"milk","x":1}`, true},
		{"trailing", `{"name":"milk"}{}`, true},
		{"empty", ``, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.in))
			var got body
			err := DecodeJSON(httptest.NewRecorder(), r, &got)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if tc.name == "trailing" && !errors.Is(err, ErrTrailingData) {
				t.Fatalf("err=%v want=%v", err, ErrTrailingData)
			}
		})
	}
}

func TestWriteError_CarriesRequestID(t *testing.T) {
	h := chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusTeapot, "nope", map[string]any{"k": "v"})
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusTeapot)
	}
	var out ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "nope" || out.RequestID == "" {
		t.Fatalf("out=%+v", out)
	}
}

func TestLogging_SkipsHealthyProbes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	status := http.StatusOK
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/list", nil))
	if n := logs.Len(); n != 1 {
		t.Fatalf("logged=%d want=1", n)
	}

	status = http.StatusServiceUnavailable
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warn) != 1 || warn[0].ContextMap()["path"] != "/readyz" {
		t.Fatalf("warn=%+v", warn)
	}
}
