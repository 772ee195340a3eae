// Package testutil provides shared helpers for package tests: a silent
// logger and an in-process portal implementing the challenge-response
// account endpoints.
package testutil

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
)

// NewTestLogger creates a logger that captures output in memory.
func NewTestLogger() *events.Logger {
	var buf bytes.Buffer
	return events.NewTestLogger(events.DebugLevel, "json", &buf)
}

// SessionCookieName mirrors the cookie the real portal sets.
const SessionCookieName = "skynet-jwt"

// PortalServer is an in-process portal for auth tests. It issues real
// random challenges and verifies submitted signatures against the public
// key that requested the challenge.
type PortalServer struct {
	*httptest.Server

	mu sync.Mutex
	// challenges maps a hex challenge to the hex public key it was issued
	// for.
	challenges map[string]string
	// accounts maps registered hex public keys to their email.
	accounts map[string]string

	// CookieValue is the session credential set on successful auth.
	CookieValue string

	// FailLogins makes the next N login submissions return 401.
	FailLogins int

	// Counters for assertions.
	ChallengeRequests int
	LoginPosts        int
	RegisterPosts     int
	LogoutPosts       int
}

// NewPortalServer starts a portal test server.
func NewPortalServer() *PortalServer {
	ps := &PortalServer{
		challenges:  make(map[string]string),
		accounts:    make(map[string]string),
		CookieValue: "test-session-jwt",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", ps.handleAuth("skynet-portal-login"))
	mux.HandleFunc("/api/register", ps.handleAuth("skynet-portal-register"))
	mux.HandleFunc("/api/logout", ps.handleLogout)

	ps.Server = httptest.NewServer(mux)
	return ps
}

// RegisteredEmail returns the email registered for a hex public key.
func (ps *PortalServer) RegisteredEmail(pubKeyHex string) string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.accounts[pubKeyHex]
}

func (ps *PortalServer) handleAuth(challengeType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ps.issueChallenge(w, r)
		case http.MethodPost:
			ps.verifyResponse(w, r, challengeType)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (ps *PortalServer) issueChallenge(w http.ResponseWriter, r *http.Request) {
	pubKey := r.URL.Query().Get("pubKey")
	if len(pubKey) != hex.EncodedLen(ed25519.PublicKeySize) {
		http.Error(w, "bad public key", http.StatusBadRequest)
		return
	}

	challenge := make([]byte, 32)
	_, _ = rand.Read(challenge)
	challengeHex := hex.EncodeToString(challenge)

	ps.mu.Lock()
	ps.ChallengeRequests++
	ps.challenges[challengeHex] = pubKey
	ps.mu.Unlock()

	writeJSON(w, map[string]interface{}{"challenge": challengeHex})
}

func (ps *PortalServer) verifyResponse(w http.ResponseWriter, r *http.Request, challengeType string) {
	var body struct {
		Response  string `json:"response"`
		Signature string `json:"signature"`
		Email     string `json:"email"`
	}
	data, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	isRegister := challengeType == "skynet-portal-register"
	ps.mu.Lock()
	if isRegister {
		ps.RegisterPosts++
	} else {
		ps.LoginPosts++
		if ps.FailLogins > 0 {
			ps.FailLogins--
			ps.mu.Unlock()
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}
	ps.mu.Unlock()

	response, err := hex.DecodeString(body.Response)
	if err != nil || len(response) < 32 {
		http.Error(w, "bad response", http.StatusBadRequest)
		return
	}
	sig, err := hex.DecodeString(body.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		http.Error(w, "bad signature", http.StatusBadRequest)
		return
	}

	challengeHex := hex.EncodeToString(response[:32])
	ps.mu.Lock()
	pubKeyHex, ok := ps.challenges[challengeHex]
	delete(ps.challenges, challengeHex)
	ps.mu.Unlock()
	if !ok {
		http.Error(w, "unknown challenge", http.StatusUnauthorized)
		return
	}

	if !strings.Contains(string(response[32:]), challengeType) {
		http.Error(w, "wrong challenge type", http.StatusUnauthorized)
		return
	}

	pubKey, _ := hex.DecodeString(pubKeyHex)
	if !ed25519.Verify(ed25519.PublicKey(pubKey), response, sig) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	if isRegister {
		if body.Email == "" {
			http.Error(w, "email required", http.StatusBadRequest)
			return
		}
		ps.mu.Lock()
		ps.accounts[pubKeyHex] = body.Email
		ps.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: ps.CookieValue})
	writeJSON(w, map[string]interface{}{"success": true})
}

func (ps *PortalServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	ps.LogoutPosts++
	ps.mu.Unlock()

	if _, err := r.Cookie(SessionCookieName); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]interface{}{"success": true})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
