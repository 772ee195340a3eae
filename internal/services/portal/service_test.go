package portal_test

import (
	"context"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/derive"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/services/portal"
	"github.com/SkynetHQ/skynet-mysky/internal/transport"
	"github.com/SkynetHQ/skynet-mysky/test/testutil"
)

const accountTweak = "mysky portal account"

var testEntropy = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

func newPortalService(t *testing.T) (*portal.Service, *testutil.PortalServer, transport.Transport) {
	t.Helper()

	ps := testutil.NewPortalServer()
	t.Cleanup(ps.Close)

	httpClient := transport.NewHTTPClient(transport.ClientConfig{
		BaseURL:    ps.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		UserAgent:  "test",
	}, testutil.NewTestLogger())
	tr := transport.New(httpClient)
	t.Cleanup(func() { _ = tr.Close() })

	svc, err := portal.NewService(tr, ps.URL, accountTweak, testutil.NewTestLogger())
	require.NoError(t, err)
	return svc, ps, tr
}

func TestNormalizeRecipient(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://siasky.net", "https://siasky.net"},
		{"https://dev1.siasky.dev", "https://siasky.dev"},
		{"https://account.sub.siasky.net/path?q=1", "https://siasky.net"},
		{"http://localhost", "http://localhost"},
	}

	for _, tt := range tests {
		got, err := portal.NormalizeRecipient(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := portal.NormalizeRecipient("not a url at all\x7f://")
	assert.Error(t, err)
	_, err = portal.NormalizeRecipient("siasky.net")
	assert.Error(t, err)
}

func TestRegisterEndToEnd(t *testing.T) {
	svc, ps, _ := newPortalService(t)

	sess, err := svc.Register(context.Background(), testEntropy, "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, ps.CookieValue, sess.Cookie)
	assert.Equal(t, "user@example.com", sess.Email)
	assert.Equal(t, 1, ps.ChallengeRequests)
	assert.Equal(t, 1, ps.RegisterPosts, "exactly one signed submission")
	assert.Equal(t, portal.Accepted, svc.LastAttemptState())

	keys, err := svc.LoginKeyPair(testEntropy)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com",
		ps.RegisteredEmail(hex.EncodeToString(keys.PublicKey)))
}

func TestLoginEndToEnd(t *testing.T) {
	svc, ps, tr := newPortalService(t)

	sess, err := svc.Login(context.Background(), testEntropy)
	require.NoError(t, err)
	assert.Equal(t, ps.CookieValue, sess.Cookie)
	assert.Equal(t, 1, ps.LoginPosts)

	// The service hands the credential back; attaching it is the session
	// layer's job.
	assert.Empty(t, tr.Credential())
}

func TestLoginRejectedByPortal(t *testing.T) {
	svc, ps, _ := newPortalService(t)
	ps.FailLogins = 1

	_, err := svc.Login(context.Background(), testEntropy)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuthExpired)
	assert.Equal(t, portal.Rejected, svc.LastAttemptState())
}

func TestRegisterRequiresEmail(t *testing.T) {
	svc, _, _ := newPortalService(t)

	_, err := svc.Register(context.Background(), testEntropy, "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestMalformedChallenge(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse(http.MethodGet, portal.LoginPath, map[string]interface{}{
		"challenge": hex.EncodeToString([]byte("too short")),
	})

	svc, err := portal.NewService(mock, "https://siasky.net", accountTweak, testutil.NewTestLogger())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), testEntropy)
	var invErr *models.CryptoInvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, portal.ChallengeSize, invErr.Expected)
}

func TestLogoutSwallowsExpiredSession(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddError(http.MethodPost, portal.LogoutPath,
		&models.APIError{StatusCode: http.StatusUnauthorized, Message: "expired"})

	svc, err := portal.NewService(mock, "https://siasky.net", accountTweak, testutil.NewTestLogger())
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background()))
}

func TestLogoutPropagatesOtherErrors(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddError(http.MethodPost, portal.LogoutPath,
		&models.APIError{StatusCode: http.StatusBadGateway, Message: "down"})

	svc, err := portal.NewService(mock, "https://siasky.net", accountTweak, testutil.NewTestLogger())
	require.NoError(t, err)

	assert.Error(t, svc.Logout(context.Background()))
}

func TestLoginKeyPairDiffersFromIdentity(t *testing.T) {
	svc, _, _ := newPortalService(t)

	keys, err := svc.LoginKeyPair(testEntropy)
	require.NoError(t, err)

	identity, err := derive.NewKeyPair(testEntropy)
	require.NoError(t, err)
	assert.NotEqual(t, identity.PublicKey, keys.PublicKey)

	again, err := svc.LoginKeyPair(testEntropy)
	require.NoError(t, err)
	assert.Equal(t, keys.PublicKey, again.PublicKey)
}
