package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/remote"
	"github.com/Jasmitha1474/women-safety-app/internal/store"
	"github.com/Jasmitha1474/women-safety-app/internal/validation"

	"go.uber.org/zap"
)

// MinContacts number of non-empty emergency contacts a saved profile needs.
const MinContacts = 2

// RemoteProfiles the remote half of the profile record.
type RemoteProfiles interface {
	FetchProfile(ctx context.Context, phone string) (*remote.Profile, error)
	Signup(ctx context.Context, req remote.SignupRequest) error
}

// Candidate user-edited fields submitted to Save.
// NewPin is optional when a PIN is already stored.
type Candidate struct {
	Name     string
	Phone    string
	Contacts []string
	Silent   bool
	NewPin   string
}

// Store owns the single user record, reconciling the local cache with the
// remote copy. The local copy stays authoritative for the PIN.
type Store struct {
	kv     store.KV
	remote RemoteProfiles
	key    string
	logger *zap.Logger

	writeMu sync.Mutex // serializes Save, Clear and reconcile write-back

	mu       sync.RWMutex
	current  models.UserProfile
	revision uint64 // bumped on every local change
}

// NewStore creates a profile store persisting under key.
func NewStore(kv store.KV, remote RemoteProfiles, key string, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		remote: remote,
		key:    key,
		logger: logger,
	}
}

// Snapshot returns a copy of the in-memory profile.
func (s *Store) Snapshot() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// StoredPin returns the locally stored PIN, empty when none is set.
func (s *Store) StoredPin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Pin
}

// Load reads the local cache and then reconciles it with the remote profile.
func (s *Store) Load(ctx context.Context) (models.UserProfile, error) {
	if _, err := s.LoadLocal(ctx); err != nil {
		return models.UserProfile{}, err
	}
	merged, _ := s.Reconcile(ctx)
	return merged, nil
}

// LoadLocal replaces the in-memory profile with the cached record.
// A missing record yields an empty profile.
func (s *Store) LoadLocal(ctx context.Context) (models.UserProfile, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil && !errors.Is(err, store.ErrMiss) {
		return models.UserProfile{}, fmt.Errorf("failed to read local profile: %w", err)
	}

	var p models.UserProfile
	if err == nil {
		if uerr := json.Unmarshal([]byte(raw), &p); uerr != nil {
			s.logger.Warn("Discarding unreadable local profile", zap.Error(uerr))
			p = models.UserProfile{}
		}
	}

	s.mu.Lock()
	s.current = p
	s.revision++
	s.mu.Unlock()

	return p.Clone(), nil
}

// Reconcile fetches the remote profile for the current phone and merges it
// over the local one. Remote fields supersede local ones except the PIN.
// Failures are logged and leave the local profile in place; the bool
// reports whether a merge was applied.
func (s *Store) Reconcile(ctx context.Context) (models.UserProfile, bool) {
	s.mu.RLock()
	local := s.current.Clone()
	rev := s.revision
	s.mu.RUnlock()

	if local.Phone == "" {
		return local, false
	}

	rp, err := s.remote.FetchProfile(ctx, local.Phone)
	if err != nil {
		s.logger.Warn("Remote profile fetch failed, keeping local profile",
			zap.String("phone", local.Phone),
			zap.Error(err),
		)
		return local, false
	}

	merged := mergeRemote(local, rp)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.revision != rev {
		// a save or clear landed while the fetch was in flight
		current := s.current.Clone()
		s.mu.Unlock()
		s.logger.Debug("Dropping stale remote profile", zap.String("phone", local.Phone))
		return current, false
	}
	s.current = merged
	s.revision++
	s.mu.Unlock()

	if err := s.persist(ctx, merged); err != nil {
		s.logger.Warn("Failed to write reconciled profile to local store", zap.Error(err))
	}

	return merged.Clone(), true
}

func mergeRemote(local models.UserProfile, rp *remote.Profile) models.UserProfile {
	merged := models.UserProfile{
		Name:     rp.Name,
		Phone:    rp.Phone,
		Contacts: append([]string{}, rp.EmergencyContacts...),
		Silent:   rp.Silent,
		Pin:      local.Pin,
	}
	if merged.Phone == "" {
		merged.Phone = local.Phone
	}
	return merged
}

// Save validates the candidate, writes it remotely and then to the local
// cache. On a RemoteSaveError nothing is persisted locally.
func (s *Store) Save(ctx context.Context, c Candidate) (models.UserProfile, error) {
	phone := strings.TrimSpace(c.Phone)
	contacts := validation.CleanContacts(c.Contacts)

	if !validation.IsValidPhone(phone) {
		return models.UserProfile{}, &ValidationError{Field: "phone", Value: phone, Reason: "must be a 10-digit mobile number starting with 6-9"}
	}
	for _, contact := range contacts {
		if !validation.IsValidPhone(contact) {
			return models.UserProfile{}, &ValidationError{Field: "contacts", Value: contact, Reason: "must be a 10-digit mobile number starting with 6-9"}
		}
	}
	if len(contacts) < MinContacts {
		return models.UserProfile{}, &ValidationError{
			Field:  "contacts",
			Reason: fmt.Sprintf("at least %d emergency contacts are required", MinContacts),
		}
	}
	if c.NewPin != "" && !validation.IsValidPin(c.NewPin) {
		return models.UserProfile{}, &ValidationError{Field: "pin", Reason: "must be 4 digits"}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pin := c.NewPin
	if pin == "" {
		pin = s.StoredPin()
	}
	if pin == "" {
		return models.UserProfile{}, ErrMissingPin
	}

	record := models.UserProfile{
		Name:     strings.TrimSpace(c.Name),
		Phone:    phone,
		Pin:      pin,
		Contacts: contacts,
		Silent:   c.Silent,
	}

	err := s.remote.Signup(ctx, remote.SignupRequest{
		Name:              record.Name,
		Phone:             record.Phone,
		Pin:               record.Pin,
		EmergencyContacts: record.Contacts,
		Contacts:          record.Contacts,
		Silent:            record.Silent,
	})
	if err != nil {
		return models.UserProfile{}, &RemoteSaveError{Profile: record.Clone(), Err: err}
	}

	if err := s.persist(ctx, record); err != nil {
		return models.UserProfile{}, err
	}

	s.mu.Lock()
	s.current = record
	s.revision++
	s.mu.Unlock()

	s.logger.Info("Profile saved",
		zap.String("phone", record.Phone),
		zap.Int("contacts", len(record.Contacts)),
		zap.Bool("silent", record.Silent),
	)
	return record.Clone(), nil
}

// Clear removes the local record and resets the in-memory profile.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear local profile: %w", err)
	}

	s.mu.Lock()
	s.current = models.UserProfile{}
	s.revision++
	s.mu.Unlock()

	s.logger.Info("Local profile cleared")
	return nil
}

func (s *Store) persist(ctx context.Context, p models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data), 0); err != nil {
		return fmt.Errorf("failed to write local profile: %w", err)
	}
	return nil
}
