package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/janisto/linkbio/internal/platform/kvstore"
	applog "github.com/janisto/linkbio/internal/platform/logging"
	"github.com/janisto/linkbio/internal/platform/timeutil"
)

const legacyProfileName = "Personal Profile"

// Manager performs CRUD and active-profile selection over one storage area.
// Calls on the same Manager are serialized; separate processes sharing a
// backend race with last-write-wins.
type Manager struct {
	mu    sync.Mutex
	store kvstore.Store
	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides profile id generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// NewManager creates a Manager over store.
func NewManager(store kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		newID: newProfileID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newProfileID returns a time-ordered unique id.
func newProfileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "profile_" + uuid.NewString()
	}
	return "profile_" + id.String()
}

func (m *Manager) timestamp() timeutil.Time {
	return timeutil.NewTime(m.now().UTC().Truncate(time.Millisecond))
}

// AllProfiles returns the stored profiles. Missing or undecodable data yields
// an empty list; only backend read failures are returned as errors.
func (m *Manager) AllProfiles(ctx context.Context) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// ActiveProfileID returns the stored active pointer, which may be dangling.
func (m *Manager) ActiveProfileID(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID(ctx)
}

// ProfileByID returns the profile with id or ErrNotFound.
func (m *Manager) ProfileByID(ctx context.Context, id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(profiles, id); i >= 0 {
		return &profiles[i], nil
	}
	return nil, ErrNotFound
}

// ActiveProfile resolves the active pointer. An unset or dangling pointer
// falls back to the first profile; an empty list yields nil with no error.
func (m *Manager) ActiveProfile(ctx context.Context) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	id, ok, err := m.activeID(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		if i := indexOf(profiles, id); i >= 0 {
			return &profiles[i], nil
		}
	}
	return &profiles[0], nil
}

// CreateProfile appends a profile seeded from the type's template. The first
// profile ever stored becomes active.
func (m *Manager) CreateProfile(ctx context.Context, params CreateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(ctx, params)
}

func (m *Manager) create(ctx context.Context, params CreateParams) (*Profile, error) {
	profiles, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	typ := params.Type
	if !typ.Valid() {
		typ = TypeProfessional
	}
	tpl := GetTemplate(typ)

	seed := ApplyTemplate(typ, Fields{})
	seed["hasAudio"] = false
	seed["audioStartTime"] = 0
	seed["audioEndTime"] = 0
	seed["isPublic"] = true
	seed["socialLinks"] = map[string]string{}
	data, err := DataFromFields(seed)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = tpl.DefaultName()
	}

	p := Profile{
		ID:        m.newID(),
		Type:      typ,
		Name:      name,
		CreatedAt: m.timestamp(),
		Data:      data,
	}
	profiles = append(profiles, p)
	if err := m.save(ctx, profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 1 {
		if err := m.store.Set(ctx, kvstore.KeyActiveProfileID, p.ID); err != nil {
			return nil, fmt.Errorf("store active profile id: %w", err)
		}
	}

	return &p, nil
}

// UpdateProfile spreads updates over the profile's data one level deep and
// stamps UpdatedAt.
func (m *Manager) UpdateProfile(ctx context.Context, id string, updates Fields) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(ctx, id, func(p *Profile) error {
		data, err := p.Data.Merge(updates)
		if err != nil {
			return err
		}
		p.Data = data
		return nil
	})
}

// RenameProfile changes the profile's label.
func (m *Manager) RenameProfile(ctx context.Context, id, name string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(ctx, id, func(p *Profile) error {
		p.Name = strings.TrimSpace(name)
		return nil
	})
}

func (m *Manager) update(ctx context.Context, id string, mutate func(*Profile) error) (*Profile, error) {
	profiles, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(profiles, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	p := profiles[i]
	if err := mutate(&p); err != nil {
		return nil, err
	}
	ts := m.timestamp()
	p.UpdatedAt = &ts
	profiles[i] = p

	if err := m.save(ctx, profiles); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProfile removes the profile and returns the remaining list. When the
// deleted profile was active, the new first profile becomes active; an empty
// list leaves the pointer dangling.
func (m *Manager) DeleteProfile(ctx context.Context, id string) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(ctx, id, false)
}

// DeleteUnlessLast is DeleteProfile, but returns ErrLastProfile instead of
// removing the only remaining profile.
func (m *Manager) DeleteUnlessLast(ctx context.Context, id string) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(ctx, id, true)
}

func (m *Manager) delete(ctx context.Context, id string, keepLast bool) ([]Profile, error) {
	profiles, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(profiles, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if keepLast && len(profiles) == 1 {
		return nil, ErrLastProfile
	}
	remaining := append(profiles[:i:i], profiles[i+1:]...)

	if err := m.save(ctx, remaining); err != nil {
		return nil, err
	}

	activeID, ok, err := m.activeID(ctx)
	if err != nil {
		return nil, err
	}
	if ok && activeID == id && len(remaining) > 0 {
		if err := m.store.Set(ctx, kvstore.KeyActiveProfileID, remaining[0].ID); err != nil {
			return nil, fmt.Errorf("store active profile id: %w", err)
		}
	}

	return remaining, nil
}

// SetActiveProfile stores id as the active pointer without checking it exists.
func (m *Manager) SetActiveProfile(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, kvstore.KeyActiveProfileID, id); err != nil {
		return fmt.Errorf("store active profile id: %w", err)
	}
	return nil
}

// MigrateOldProfile wraps the single-record legacy format as one personal
// profile. It does nothing when profiles already exist. Missing or corrupt
// legacy data is logged and skipped.
func (m *Manager) MigrateOldProfile(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.load(ctx)
	if err != nil {
		return err
	}
	if len(profiles) > 0 {
		return nil
	}

	raw, ok, err := m.store.Get(ctx, kvstore.KeyLegacyProfile)
	if err != nil {
		applog.LogError(ctx, "legacy profile read failed", err)
		return nil
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return nil
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		applog.LogWarn(ctx, "legacy profile is not valid JSON; skipping migration",
			slog.String("key", kvstore.KeyLegacyProfile),
			slog.String("error", err.Error()))
		return nil
	}

	p := Profile{
		ID:        m.newID(),
		Type:      TypePersonal,
		Name:      legacyProfileName,
		CreatedAt: m.timestamp(),
		Data:      data,
	}
	if err := m.save(ctx, []Profile{p}); err != nil {
		return err
	}
	if err := m.store.Set(ctx, kvstore.KeyActiveProfileID, p.ID); err != nil {
		return fmt.Errorf("store active profile id: %w", err)
	}

	applog.LogInfo(ctx, "migrated legacy profile", slog.String("profile_id", p.ID))
	return nil
}

// InitializeProfiles creates a default personal profile carrying username
// when no profiles exist.
func (m *Manager) InitializeProfiles(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.load(ctx)
	if err != nil {
		return err
	}
	if len(profiles) > 0 {
		return nil
	}

	p, err := m.create(ctx, CreateParams{Type: TypePersonal})
	if err != nil {
		return err
	}
	_, err = m.update(ctx, p.ID, func(p *Profile) error {
		data, err := p.Data.Merge(Fields{"displayName": username, "username": username})
		if err != nil {
			return err
		}
		p.Data = data
		return nil
	})
	return err
}

func (m *Manager) load(ctx context.Context) ([]Profile, error) {
	raw, ok, err := m.store.Get(ctx, kvstore.KeyProfiles)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Profile{}, nil
	}

	var profiles []Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		applog.LogWarn(ctx, "stored profiles are corrupt; treating as empty",
			slog.String("key", kvstore.KeyProfiles),
			slog.String("error", err.Error()))
		return []Profile{}, nil
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}

func (m *Manager) save(ctx context.Context, profiles []Profile) error {
	b, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := m.store.Set(ctx, kvstore.KeyProfiles, string(b)); err != nil {
		return fmt.Errorf("store profiles: %w", err)
	}
	return nil
}

func (m *Manager) activeID(ctx context.Context) (string, bool, error) {
	id, ok, err := m.store.Get(ctx, kvstore.KeyActiveProfileID)
	if err != nil {
		return "", false, fmt.Errorf("load active profile id: %w", err)
	}
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func indexOf(profiles []Profile, id string) int {
	for i := range profiles {
		if profiles[i].ID == id {
			return i
		}
	}
	return -1
}
