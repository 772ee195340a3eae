// Package portal executes the challenge-response protocol against the
// portal's account endpoints. One Attempt walks
// Idle → ChallengeRequested → ChallengeReceived → ResponseSigned →
// Submitted → Accepted | Rejected; nothing is retried inside an attempt.
package portal

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/SkynetHQ/skynet-mysky/internal/derive"
	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/transport"
)

// Challenge-type literals. Distinct tags for login and register mean a
// signed login challenge can never be replayed as a registration.
const (
	challengeTypeLogin    = "skynet-portal-login"
	challengeTypeRegister = "skynet-portal-register"
)

// ChallengeSize is the length of the server challenge in bytes.
const ChallengeSize = 32

// Portal account endpoints. LogoutPath is exported because auto-relogin
// must never fire for a logout request.
const (
	LoginPath    = "/api/login"
	RegisterPath = "/api/register"
	LogoutPath   = "/api/logout"
)

// AttemptState tracks one authentication attempt.
type AttemptState int

const (
	AttemptIdle AttemptState = iota
	ChallengeRequested
	ChallengeReceived
	ResponseSigned
	Submitted
	Accepted
	Rejected
)

func (s AttemptState) String() string {
	switch s {
	case AttemptIdle:
		return "idle"
	case ChallengeRequested:
		return "challenge_requested"
	case ChallengeReceived:
		return "challenge_received"
	case ResponseSigned:
		return "response_signed"
	case Submitted:
		return "submitted"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Service handles portal authentication.
type Service struct {
	transport transport.Transport
	logger    *events.Logger

	// accountTweak salts the login keypair derivation.
	accountTweak string

	// recipient is the normalized portal identity bound into every
	// signed response.
	recipient string

	lastState AttemptState
}

// NewService creates a portal auth service. portalURL is the account
// origin the recipient binding is derived from.
func NewService(t transport.Transport, portalURL, accountTweak string, logger *events.Logger) (*Service, error) {
	recipient, err := NormalizeRecipient(portalURL)
	if err != nil {
		return nil, fmt.Errorf("portal url: %w", err)
	}

	return &Service{
		transport:    t,
		logger:       logger.WithField("service", "portal"),
		accountTweak: accountTweak,
		recipient:    recipient,
	}, nil
}

// LoginKeyPair derives the portal login keypair for a seed. The account
// tweak keeps portal keys disjoint from identity and filesystem keys.
func (s *Service) LoginKeyPair(entropy []byte) (derive.KeyPair, error) {
	return derive.NewKeyPairWithTweak(entropy, s.accountTweak)
}

// LastAttemptState reports where the most recent attempt ended. Useful
// for diagnostics; not part of the auth decision.
func (s *Service) LastAttemptState() AttemptState {
	return s.lastState
}

// Login authenticates the seed's portal account and returns the session
// credential the portal handed back.
func (s *Service) Login(ctx context.Context, entropy []byte) (*models.PortalSession, error) {
	return s.authenticate(ctx, entropy, LoginPath, challengeTypeLogin, "")
}

// Register creates a portal account for the seed's login key and returns
// the session credential.
func (s *Service) Register(ctx context.Context, entropy []byte, email string) (*models.PortalSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email required for registration")
	}
	return s.authenticate(ctx, entropy, RegisterPath, challengeTypeRegister, email)
}

// Logout invalidates the server-side session. A 401 means the session
// was already gone, which is success for our purposes.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.transport.PostJSON(ctx, LogoutPath, nil)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			s.logger.Debug("Logout on expired session, ignoring")
			return nil
		}
		return fmt.Errorf("portal logout: %w", err)
	}
	return nil
}

// authenticate runs one full challenge-response attempt.
func (s *Service) authenticate(ctx context.Context, entropy []byte, path, challengeType, email string) (*models.PortalSession, error) {
	s.lastState = AttemptIdle

	keys, err := s.LoginKeyPair(entropy)
	if err != nil {
		return nil, err
	}

	// Step 1: request the challenge.
	s.lastState = ChallengeRequested
	query := url.Values{}
	query.Set("pubKey", hex.EncodeToString(keys.PublicKey))

	res, err := s.transport.GetJSON(ctx, path, query)
	if err != nil {
		s.lastState = Rejected
		return nil, fmt.Errorf("request challenge: %w", err)
	}

	challengeHex, _ := res.Body["challenge"].(string)
	challenge, err := hex.DecodeString(challengeHex)
	if err != nil {
		s.lastState = Rejected
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	if len(challenge) != ChallengeSize {
		s.lastState = Rejected
		return nil, &models.CryptoInvariantError{
			What:     "portal challenge",
			Expected: ChallengeSize,
			Actual:   len(challenge),
		}
	}
	s.lastState = ChallengeReceived

	// Step 2: build and sign the response. The recipient binding stops a
	// signed challenge from being replayed against a different portal.
	response := make([]byte, 0, len(challenge)+len(challengeType)+len(s.recipient))
	response = append(response, challenge...)
	response = append(response, challengeType...)
	response = append(response, s.recipient...)

	sig := ed25519.Sign(keys.PrivateKey, response)[:derive.SignatureSize]
	s.lastState = ResponseSigned

	// Step 3: submit.
	payload := map[string]interface{}{
		"response":  hex.EncodeToString(response),
		"signature": hex.EncodeToString(sig),
	}
	if email != "" {
		payload["email"] = email
	}

	s.lastState = Submitted
	res, err = s.transport.PostJSON(ctx, path, payload)
	if err != nil {
		s.lastState = Rejected
		return nil, fmt.Errorf("submit response: %w", err)
	}

	cookie := sessionCookie(res)
	if cookie == "" {
		s.lastState = Rejected
		return nil, fmt.Errorf("portal did not return a session credential")
	}

	s.lastState = Accepted
	s.logger.WithField("recipient", s.recipient).Info("Portal authentication accepted")

	return &models.PortalSession{Cookie: cookie, Email: email}, nil
}

// NormalizeRecipient reduces a portal URL to scheme plus the last two
// hostname labels, no trailing slash. The server applies the identical
// reduction when verifying, so this is a pure compatibility function.
func NormalizeRecipient(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("url %q lacks a scheme or host", rawURL)
	}

	labels := strings.Split(u.Hostname(), ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}

	return u.Scheme + "://" + strings.Join(labels, "."), nil
}

func sessionCookie(res *transport.Result) string {
	for _, c := range res.Cookies {
		if c.Name == transport.SessionCookieName {
			return c.Value
		}
	}
	return ""
}
