package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/janisto/linkbio/internal/platform/kvstore"
)

func newTestManager(t *testing.T) (*Manager, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory(0)
	return NewManager(store), store
}

// failingStore fails reads or writes on demand.
type failingStore struct {
	kvstore.Store
	getErr error
	setErr error
}

func (s *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(ctx, key, value)
}

func TestManager_EmptyState(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	profiles, err := m.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("AllProfiles failed: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected no profiles, got %d", len(profiles))
	}
	if _, ok, _ := m.ActiveProfileID(ctx); ok {
		t.Fatal("expected no active id")
	}
	active, err := m.ActiveProfile(ctx)
	if err != nil || active != nil {
		t.Fatalf("expected nil active profile, got %v err=%v", active, err)
	}
}

func TestManager_CreateFirstProfileBecomesActive(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.CreateProfile(ctx, CreateParams{Type: TypeCreative, Name: "Art"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	id, ok, err := m.ActiveProfileID(ctx)
	if err != nil || !ok || id != first.ID {
		t.Fatalf("expected first profile active, got %q ok=%v err=%v", id, ok, err)
	}
	if second.Name != "Personal Profile" {
		t.Fatalf("expected default name, got %q", second.Name)
	}
	if first.Name != "Art" {
		t.Fatalf("expected given name, got %q", first.Name)
	}
}

func TestManager_CreateSeedsData(t *testing.T) {
	m, _ := newTestManager(t)

	p, err := m.CreateProfile(context.Background(), CreateParams{Type: TypeCreative})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.Data.BgColor != "#1a1a2e" || p.Data.Layout != "gallery" {
		t.Fatalf("expected creative defaults, got bg=%q layout=%q", p.Data.BgColor, p.Data.Layout)
	}
	if !p.Data.Public() || p.Data.IsPublic == nil {
		t.Fatal("expected isPublic=true to be stored")
	}
	if p.Data.HasAudio == nil || *p.Data.HasAudio {
		t.Fatal("expected hasAudio=false to be stored")
	}
	if p.Data.AudioStart == nil || *p.Data.AudioStart != 0 || p.Data.AudioEnd == nil || *p.Data.AudioEnd != 0 {
		t.Fatal("expected zeroed audio timestamps")
	}
	if p.Data.SocialLinks == nil || len(p.Data.SocialLinks) != 0 {
		t.Fatalf("expected empty social links, got %v", p.Data.SocialLinks)
	}
	if p.Data.DisplayName != "Artist Name" {
		t.Fatalf("expected placeholder display name, got %q", p.Data.DisplayName)
	}
	if p.UpdatedAt != nil {
		t.Fatal("expected no updatedAt before first update")
	}
	if !strings.HasPrefix(p.ID, "profile_") {
		t.Fatalf("unexpected id format %q", p.ID)
	}
}

func TestManager_CreateBusinessWithoutName(t *testing.T) {
	m, _ := newTestManager(t)

	p, err := m.CreateProfile(context.Background(), CreateParams{Type: TypeBusiness})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasSuffix(p.Name, "Profile") {
		t.Fatalf("expected name ending in Profile, got %q", p.Name)
	}
	if p.Data.Layout != "linkedin" {
		t.Fatalf("expected linkedin layout, got %q", p.Data.Layout)
	}
}

func TestManager_CreateUnknownTypeFallsBack(t *testing.T) {
	m, _ := newTestManager(t)

	p, err := m.CreateProfile(context.Background(), CreateParams{Type: "hologram"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.Type != TypeProfessional {
		t.Fatalf("expected professional fallback, got %q", p.Type)
	}
}

func TestManager_IDsUnique(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 25 {
		wg.Go(func() {
			if _, err := m.CreateProfile(ctx, CreateParams{Type: TypePersonal}); err != nil {
				t.Errorf("create failed: %v", err)
			}
		})
	}
	wg.Wait()

	profiles, err := m.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("AllProfiles failed: %v", err)
	}
	if len(profiles) != 25 {
		t.Fatalf("expected 25 profiles, got %d", len(profiles))
	}
	seen := make(map[string]bool)
	for _, p := range profiles {
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestManager_ProfileByID(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypeResume})
	got, err := m.ProfileByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("ProfileByID failed: %v", err)
	}
	if got.Type != TypeResume {
		t.Fatalf("expected resume type, got %q", got.Type)
	}
	if _, err := m.ProfileByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_SetActiveProfile(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	b, _ := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness})

	if err := m.SetActiveProfile(ctx, b.ID); err != nil {
		t.Fatalf("SetActiveProfile failed: %v", err)
	}
	active, err := m.ActiveProfile(ctx)
	if err != nil || active == nil || active.ID != b.ID {
		t.Fatalf("expected %q active, got %v err=%v", b.ID, active, err)
	}

	if err := m.SetActiveProfile(ctx, "does-not-exist"); err != nil {
		t.Fatalf("unknown id should be stored without error, got %v", err)
	}
	id, _, _ := m.ActiveProfileID(ctx)
	if id != "does-not-exist" {
		t.Fatalf("expected dangling pointer stored, got %q", id)
	}
	active, err = m.ActiveProfile(ctx)
	if err != nil || active == nil || active.ID != a.ID {
		t.Fatalf("expected fallback to first profile, got %v err=%v", active, err)
	}
}

func TestManager_UpdateAccumulates(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(kvstore.NewMemory(0), WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})

	clock = clock.Add(time.Minute)
	if _, err := m.UpdateProfile(ctx, p.ID, Fields{"a": 1}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := m.UpdateProfile(ctx, p.ID, Fields{"b": 2})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	fields, err := updated.Data.Fields()
	if err != nil {
		t.Fatalf("fields failed: %v", err)
	}
	if fields["a"] != float64(1) || fields["b"] != float64(2) {
		t.Fatalf("expected a=1 and b=2, got a=%v b=%v", fields["a"], fields["b"])
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(clock) {
		t.Fatalf("expected updatedAt %v, got %v", clock, updated.UpdatedAt)
	}
	if updated.CreatedAt.Equal(clock) {
		t.Fatal("createdAt must not change on update")
	}

	stored, _ := m.ProfileByID(ctx, p.ID)
	if stored.Data.Layout != "minimal" {
		t.Fatalf("expected template fields preserved, got layout %q", stored.Data.Layout)
	}
}

func TestManager_UpdateReplacesNestedObjects(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if _, err := m.UpdateProfile(ctx, p.ID, Fields{"socialLinks": map[string]string{"ig": "x"}}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := m.UpdateProfile(ctx, p.ID, Fields{"socialLinks": map[string]string{"fb": "y"}})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(updated.Data.SocialLinks) != 1 || updated.Data.SocialLinks["fb"] != "y" {
		t.Fatalf("expected socialLinks={fb:y}, got %v", updated.Data.SocialLinks)
	}
	if _, ok := updated.Data.SocialLinks["ig"]; ok {
		t.Fatal("ig must be dropped by the shallow merge")
	}
}

func TestManager_UpdateNotFound(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.UpdateProfile(context.Background(), "missing", Fields{"a": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_UpdateInvalidTypedField(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	_, err := m.UpdateProfile(ctx, p.ID, Fields{"socialLinks": "not-a-map"})
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestManager_RenameProfile(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypeFreelance})
	renamed, err := m.RenameProfile(ctx, p.ID, "  Gigs  ")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Name != "Gigs" || renamed.Type != TypeFreelance {
		t.Fatalf("unexpected rename result: %+v", renamed)
	}
	if _, err := m.RenameProfile(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_DeleteActiveReassigns(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	b, _ := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness})

	remaining, err := m.DeleteProfile(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != b.ID {
		t.Fatalf("unexpected remaining list: %+v", remaining)
	}
	id, _, _ := m.ActiveProfileID(ctx)
	if id != b.ID {
		t.Fatalf("expected active reassigned to %q, got %q", b.ID, id)
	}
}

func TestManager_DeleteInactiveKeepsPointer(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	b, _ := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness})

	if _, err := m.DeleteProfile(ctx, b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	id, _, _ := m.ActiveProfileID(ctx)
	if id != a.ID {
		t.Fatalf("expected active to stay %q, got %q", a.ID, id)
	}
}

func TestManager_DeleteLastLeavesDanglingPointer(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	remaining, err := m.DeleteProfile(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty list, got %d", len(remaining))
	}
	id, ok, _ := m.ActiveProfileID(ctx)
	if !ok || id != a.ID {
		t.Fatalf("expected dangling pointer %q, got %q ok=%v", a.ID, id, ok)
	}
	active, err := m.ActiveProfile(ctx)
	if err != nil || active != nil {
		t.Fatalf("expected no active profile, got %v err=%v", active, err)
	}
}

func TestManager_DeleteUnlessLast(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if _, err := m.DeleteUnlessLast(ctx, first.ID); !errors.Is(err, ErrLastProfile) {
		t.Fatalf("expected ErrLastProfile, got %v", err)
	}
	if profiles, _ := m.AllProfiles(ctx); len(profiles) != 1 {
		t.Fatalf("only profile must be kept, got %d", len(profiles))
	}

	second, _ := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness})
	remaining, err := m.DeleteUnlessLast(ctx, first.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Fatalf("unexpected remaining list %+v", remaining)
	}
	if _, err := m.DeleteUnlessLast(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_DeleteNotFound(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.DeleteProfile(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_CorruptListTreatedAsEmpty(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	if err := store.Set(ctx, kvstore.KeyProfiles, "{definitely not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	profiles, err := m.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("corrupt data must not surface an error, got %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected empty list, got %d", len(profiles))
	}

	p, err := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if err != nil {
		t.Fatalf("create over corrupt data failed: %v", err)
	}
	id, _, _ := m.ActiveProfileID(ctx)
	if id != p.ID {
		t.Fatal("expected new profile active after recovering from corrupt data")
	}
}

func TestManager_LooselyTypedDataSurvives(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	stored := `[{"id":"p1","type":"creative","name":"Mine","createdAt":"2024-01-02T03:04:05.000Z",` +
		`"data":{"displayName":"Me","audioStartTime":"12","isPublic":"true"}}]`
	if err := store.Set(ctx, kvstore.KeyProfiles, stored); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	profiles, err := m.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "p1" || profiles[0].Data.DisplayName != "Me" {
		t.Fatalf("expected stored profile readable, got %+v", profiles)
	}

	if _, err := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	profiles, _ = m.AllProfiles(ctx)
	if len(profiles) != 2 || profiles[0].ID != "p1" {
		t.Fatalf("expected existing profile kept after create, got %d profiles", len(profiles))
	}
	raw, _, _ := store.Get(ctx, kvstore.KeyProfiles)
	if !strings.Contains(raw, `"audioStartTime":"12"`) {
		t.Fatalf("expected loosely typed value persisted unchanged, got %s", raw)
	}
}

func TestManager_UpdateCaseVariantKeyIsExtension(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	p, _ := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	updated, err := m.UpdateProfile(ctx, p.ID, Fields{"Layout": 7, "Username": "x"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Data.Layout != p.Data.Layout || updated.Data.Username != "" {
		t.Fatalf("case variants must not touch typed fields: %+v", updated.Data)
	}
	if string(updated.Data.Extra["Layout"]) != "7" {
		t.Fatalf("expected Layout kept as extension key, got %v", updated.Data.Extra)
	}
}

func TestManager_ReadErrorPropagates(t *testing.T) {
	boom := errors.New("backend unavailable")
	m := NewManager(&failingStore{Store: kvstore.NewMemory(0), getErr: boom})

	if _, err := m.AllProfiles(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestManager_QuotaExceededPropagates(t *testing.T) {
	m := NewManager(kvstore.NewMemory(64))
	ctx := context.Background()

	_, err := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if !errors.Is(err, kvstore.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestManager_WriteErrorPropagatesOnUpdate(t *testing.T) {
	store := &failingStore{Store: kvstore.NewMemory(0)}
	m := NewManager(store)
	ctx := context.Background()

	p, err := m.CreateProfile(ctx, CreateParams{Type: TypePersonal})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.setErr = fmt.Errorf("disk: %w", kvstore.ErrQuotaExceeded)
	if _, err := m.UpdateProfile(ctx, p.ID, Fields{"bio": "x"}); !kvstore.IsQuotaExceeded(err) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestManager_MigrateOldProfile(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	legacy := `{"displayName":"Old Me","bgColor":"#000000","socialLinks":{"ig":"oldme"},"bio":"hello"}`
	if err := store.Set(ctx, kvstore.KeyLegacyProfile, legacy); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := m.MigrateOldProfile(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := m.MigrateOldProfile(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	profiles, _ := m.AllProfiles(ctx)
	if len(profiles) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.Type != TypePersonal {
		t.Fatalf("expected personal type, got %q", p.Type)
	}
	if p.Data.DisplayName != "Old Me" || p.Data.SocialLinks["ig"] != "oldme" {
		t.Fatalf("legacy fields not carried over: %+v", p.Data)
	}
	if string(p.Data.Extra["bio"]) != `"hello"` {
		t.Fatalf("expected unknown legacy field kept, got %s", p.Data.Extra["bio"])
	}
	id, _, _ := m.ActiveProfileID(ctx)
	if id != p.ID {
		t.Fatal("expected migrated profile to be active")
	}
	if v, ok, _ := store.Get(ctx, kvstore.KeyLegacyProfile); !ok || v != legacy {
		t.Fatal("legacy record must be left untouched")
	}
}

func TestManager_MigrateLooselyTypedLegacy(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	legacy := `{"displayName":"Old","isPublic":"true","audioStartTime":"5"}`
	if err := store.Set(ctx, kvstore.KeyLegacyProfile, legacy); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := m.MigrateOldProfile(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	profiles, _ := m.AllProfiles(ctx)
	if len(profiles) != 1 {
		t.Fatalf("expected legacy record migrated, got %d profiles", len(profiles))
	}
	d := profiles[0].Data
	if d.DisplayName != "Old" || string(d.Extra["isPublic"]) != `"true"` {
		t.Fatalf("legacy content not carried over: %+v", d)
	}
}

func TestManager_MigrateSkipsWhenProfilesExist(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	existing, _ := m.CreateProfile(ctx, CreateParams{Type: TypeBusiness})
	_ = store.Set(ctx, kvstore.KeyLegacyProfile, `{"displayName":"Old"}`)

	if err := m.MigrateOldProfile(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	profiles, _ := m.AllProfiles(ctx)
	if len(profiles) != 1 || profiles[0].ID != existing.ID {
		t.Fatalf("expected only the existing profile, got %+v", profiles)
	}
}

func TestManager_MigrateCorruptLegacyIsSwallowed(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	_ = store.Set(ctx, kvstore.KeyLegacyProfile, `[1,2`)
	if err := m.MigrateOldProfile(ctx); err != nil {
		t.Fatalf("corrupt legacy data must not surface, got %v", err)
	}
	profiles, _ := m.AllProfiles(ctx)
	if len(profiles) != 0 {
		t.Fatalf("expected no profiles, got %d", len(profiles))
	}
}

func TestManager_MigrateWithoutLegacyIsNoop(t *testing.T) {
	m, _ := newTestManager(t)

	if err := m.MigrateOldProfile(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	profiles, _ := m.AllProfiles(context.Background())
	if len(profiles) != 0 {
		t.Fatalf("expected no profiles, got %d", len(profiles))
	}
}

func TestManager_InitializeProfiles(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.InitializeProfiles(ctx, "alice"); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := m.InitializeProfiles(ctx, "bob"); err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}

	profiles, _ := m.AllProfiles(ctx)
	if len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.Type != TypePersonal {
		t.Fatalf("expected personal profile, got %q", p.Type)
	}
	if p.Data.DisplayName != "alice" || p.Data.Username != "alice" {
		t.Fatalf("expected username applied, got %+v", p.Data)
	}
	if p.UpdatedAt == nil {
		t.Fatal("expected updatedAt set by the follow-up update")
	}
}

func TestProvider_IsolatesUsers(t *testing.T) {
	base := kvstore.NewMemory(0)
	p := NewProvider(base)
	ctx := context.Background()

	if p.For("alice") != p.For("alice") {
		t.Fatal("expected the same manager for the same user")
	}
	if _, err := p.For("alice").CreateProfile(ctx, CreateParams{Type: TypePersonal}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	profiles, _ := p.For("bob").AllProfiles(ctx)
	if len(profiles) != 0 {
		t.Fatalf("bob must not see alice's profiles, got %d", len(profiles))
	}
	if _, ok, _ := base.Get(ctx, "users/alice/"+kvstore.KeyProfiles); !ok {
		t.Fatal("expected alice's list under the user namespace")
	}
}

func TestProvider_ReaderDoesNotCache(t *testing.T) {
	base := kvstore.NewMemory(0)
	p := NewProvider(base)
	ctx := context.Background()

	for i := range 100 {
		if _, err := p.Reader(fmt.Sprintf("visitor-%d", i)).ActiveProfile(ctx); err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
	}
	if len(p.managers) != 0 {
		t.Fatalf("anonymous lookups must not be cached, got %d managers", len(p.managers))
	}

	owner := p.For("alice")
	if p.Reader("alice") != owner {
		t.Fatal("expected Reader to reuse the cached manager")
	}
	created, _ := owner.CreateProfile(ctx, CreateParams{Type: TypeCreative})
	got, err := p.Reader("alice").ActiveProfile(ctx)
	if err != nil || got == nil || got.ID != created.ID {
		t.Fatalf("expected reader to see alice's profile, got %v err=%v", got, err)
	}
}
