// Package gateway is the permission-gated signing surface. Every
// signature-producing or secret-revealing operation asks the permissions
// authority for a fresh verdict first; key material is only derived after
// a grant.
package gateway

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/SkynetHQ/skynet-mysky/internal/derive"
	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// Checker delivers permission verdicts. *authority.Client satisfies it;
// tests substitute their own.
type Checker interface {
	CheckPermissions(ctx context.Context, perms []models.Permission, devMode bool) (*models.CheckPermissionsResponse, error)
}

// Service gates signing operations behind the permissions authority.
type Service struct {
	checker Checker
	logger  *events.Logger

	// entropy is the user's seed. Keys are derived from it per operation,
	// never held pre-derived.
	entropy []byte

	// devMode relaxes enforcement at the authority, not here.
	devMode bool
}

// NewService creates a signing gateway over the given seed entropy.
func NewService(checker Checker, entropy []byte, devMode bool, logger *events.Logger) *Service {
	return &Service{
		checker: checker,
		logger:  logger.WithField("service", "gateway"),
		entropy: entropy,
		devMode: devMode,
	}
}

// SignRegistryEntry signs a discoverable registry entry on behalf of a
// requestor. The entry's data key must equal the deterministic tweak for
// path; that is checked before the permission round-trip, because asking
// the authority about the wrong path is meaningless.
func (s *Service) SignRegistryEntry(ctx context.Context, requestor, path string, entry models.RegistryEntry) (*models.SignedRegistryEntry, error) {
	if entry.DataKey != derive.DiscoverableTweak(path) {
		return nil, fmt.Errorf("registry entry for %q: %w", path, models.ErrDataKeyMismatch)
	}

	perm := models.NewPermission(requestor, path, models.PermDiscoverable, models.PermWrite)
	if err := s.check(ctx, perm); err != nil {
		return nil, err
	}

	return s.signEntry(entry)
}

// SignEncryptedRegistryEntry signs a hidden registry entry. The data key
// must equal the tweak derived from the path seed, checked before the
// permission round-trip.
func (s *Service) SignEncryptedRegistryEntry(ctx context.Context, requestor, path string, pathSeed []byte, entry models.RegistryEntry) (*models.SignedRegistryEntry, error) {
	if entry.DataKey != derive.HiddenTweak(pathSeed) {
		return nil, fmt.Errorf("encrypted registry entry for %q: %w", path, models.ErrDataKeyMismatch)
	}

	perm := models.NewPermission(requestor, path, models.PermHidden, models.PermWrite)
	if err := s.check(ctx, perm); err != nil {
		return nil, err
	}

	return s.signEntry(entry)
}

// SignMessage signs an arbitrary message under the message salt on behalf
// of a requestor.
func (s *Service) SignMessage(ctx context.Context, requestor string, message []byte) ([]byte, error) {
	perm := models.NewPermission(requestor, requestor, models.PermDiscoverable, models.PermRead)
	if err := s.check(ctx, perm); err != nil {
		return nil, err
	}

	keys, err := derive.NewKeyPair(s.entropy)
	if err != nil {
		return nil, err
	}
	return derive.SignMessage(keys.PrivateKey, message)
}

// VerifyMessageSignature checks a signature made by SignMessage.
// Verification reveals nothing, so it is not gated.
func (s *Service) VerifyMessageSignature(message, sig []byte) (bool, error) {
	keys, err := derive.NewKeyPair(s.entropy)
	if err != nil {
		return false, err
	}
	return derive.VerifyMessageSignature(keys.PublicKey, message, sig)
}

// GetEncryptedPathSeed reveals the path seed for a hidden path. The seed
// reconstructs every key below that path, so it is gated like a write.
func (s *Service) GetEncryptedPathSeed(ctx context.Context, requestor, path string, isDirectory bool) ([]byte, error) {
	perm := models.NewPermission(requestor, path, models.PermHidden, models.PermRead)
	if err := s.check(ctx, perm); err != nil {
		return nil, err
	}

	return derive.PathSeed(s.entropy, path, isDirectory)
}

// check asks the authority for a verdict on a single permission. No
// verdict is ever cached: grants may be time-boxed or revoked.
func (s *Service) check(ctx context.Context, perm models.Permission) error {
	resp, err := s.checker.CheckPermissions(ctx, []models.Permission{perm}, s.devMode)
	if err != nil {
		return fmt.Errorf("permission check: %w", err)
	}

	if models.Contains(resp.FailedPermissions, perm) || !models.Contains(resp.GrantedPermissions, perm) {
		s.logger.WithField("permission", perm.String()).Debug("Permission denied")
		return &models.PermissionDeniedError{Permission: perm}
	}
	return nil
}

func (s *Service) signEntry(entry models.RegistryEntry) (*models.SignedRegistryEntry, error) {
	entryBytes, err := marshalEntry(entry)
	if err != nil {
		return nil, err
	}

	keys, err := derive.NewKeyPair(s.entropy)
	if err != nil {
		return nil, err
	}

	sig, err := derive.SignRegistryDigest(keys.PrivateKey, entryBytes)
	if err != nil {
		return nil, err
	}

	return &models.SignedRegistryEntry{Entry: entry, Signature: sig}, nil
}

// marshalEntry produces the canonical byte encoding of a registry entry:
// decoded data key, length-prefixed data, then the revision, all
// little-endian. Changing this layout invalidates existing signatures.
func marshalEntry(entry models.RegistryEntry) ([]byte, error) {
	dataKey, err := hex.DecodeString(entry.DataKey)
	if err != nil {
		return nil, fmt.Errorf("decode data key: %w", err)
	}

	buf := make([]byte, 0, len(dataKey)+8+len(entry.Data)+8)
	buf = append(buf, dataKey...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(entry.Data)))
	buf = append(buf, entry.Data...)
	buf = binary.LittleEndian.AppendUint64(buf, entry.Revision)
	return buf, nil
}
