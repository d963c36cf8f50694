package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/micro-nova/msiec-go/internal/auth"
)

func writeKeys(t *testing.T, dir string, keys map[string]auth.Key) {
	t.Helper()
	data, err := json.Marshal(keys)
	if err != nil {
		t.Fatalf("json.Marshal keys: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "keys.json"), data, 0600); err != nil {
		t.Fatalf("WriteFile keys.json: %v", err)
	}
}

func newService(t *testing.T, dir string) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(dir)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestService_OpenMode(t *testing.T) {
	svc := newService(t, t.TempDir())
	if !svc.IsOpenMode() {
		t.Error("IsOpenMode() = false, want true when no keys.json")
	}
	if svc.VerifyKey("") || svc.VerifyKey("anything") {
		t.Error("VerifyKey matched with no keys configured")
	}
}

func TestService_BlankKeysStayOpen(t *testing.T) {
	dir := t.TempDir()
	writeKeys(t, dir, map[string]auth.Key{"admin": {Key: ""}})
	if !newService(t, dir).IsOpenMode() {
		t.Error("blank key should not close open mode")
	}
}

func TestService_VerifyKey(t *testing.T) {
	dir := t.TempDir()
	writeKeys(t, dir, map[string]auth.Key{"admin": {Key: "s3cret"}})
	svc := newService(t, dir)

	if svc.IsOpenMode() {
		t.Fatal("IsOpenMode() = true with a key configured")
	}
	tests := []struct {
		key  string
		want bool
	}{
		{"s3cret", true},
		{"S3CRET", false},
		{"", false},
		{"s3cret ", false},
	}
	for _, tt := range tests {
		if got := svc.VerifyKey(tt.key); got != tt.want {
			t.Errorf("VerifyKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestService_Reload(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir)
	if !svc.IsOpenMode() {
		t.Fatal("expected open mode before keys.json exists")
	}

	writeKeys(t, dir, map[string]auth.Key{"admin": {Key: "k1"}})
	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !svc.VerifyKey("k1") {
		t.Error("VerifyKey(k1) = false after reload")
	}

	if err := os.Remove(filepath.Join(dir, "keys.json")); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload after remove: %v", err)
	}
	if !svc.IsOpenMode() {
		t.Error("removing keys.json should restore open mode")
	}
}

func TestService_ReloadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keys.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.NewService(dir); err == nil {
		t.Error("NewService accepted malformed keys.json")
	}
}

func TestService_MissingDir(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "does-not-exist"))
	if !svc.IsOpenMode() {
		t.Error("missing dir should mean open mode")
	}
}

func TestMiddleware(t *testing.T) {
	dir := t.TempDir()
	writeKeys(t, dir, map[string]auth.Key{"admin": {Key: "s3cret"}})
	h := newService(t, dir).Middleware(okHandler())

	tests := []struct {
		name   string
		method string
		target string
		header string
		want   int
	}{
		{"read without key", http.MethodGet, "/api/features", "", http.StatusOK},
		{"write without key", http.MethodPut, "/api/features/webcam", "", http.StatusUnauthorized},
		{"write with header", http.MethodPut, "/api/features/webcam", "s3cret", http.StatusOK},
		{"write with query", http.MethodPatch, "/api/features?api-key=s3cret", "", http.StatusOK},
		{"write with wrong key", http.MethodPut, "/api/features/webcam", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Api-Key", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestMiddleware_OpenModeAllowsWrites(t *testing.T) {
	h := newService(t, t.TempDir()).Middleware(okHandler())
	req := httptest.NewRequest(http.MethodPut, "/api/features/webcam", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 in open mode", rr.Code)
	}
}
