package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAPI is a minimal scriptable backend for black-box tests: it issues
// sequential T<n>/R<n> pairs and validates bearers server-side.
type fakeAPI struct {
	srv *httptest.Server

	mu           sync.Mutex
	seq          int
	valid        map[string]bool
	refreshToken string
	refreshCalls int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{valid: map[string]bool{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.writePair(w)
	})
	mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshCalls++

		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != f.refreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "refresh token expired"})
			return
		}
		f.writePair(w)
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		token := r.Header.Get("Authorization")
		if len(token) > 7 {
			token = token[7:]
		}
		if !f.valid[token] {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"uid":   "u1",
			"email": "a@b.com",
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) writePair(w http.ResponseWriter) {
	f.seq++
	access := fmt.Sprintf("T%d", f.seq)
	refresh := fmt.Sprintf("R%d", f.seq)
	f.valid[access] = true
	f.refreshToken = refresh
	_ = json.NewEncoder(w).Encode(map[string]string{"token": access, "refreshToken": refresh})
}

func (f *fakeAPI) expireAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valid = map[string]bool{}
}

func (f *fakeAPI) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}
