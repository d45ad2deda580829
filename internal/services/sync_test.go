package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/localstore"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
)

const testUserID = "user-1"

func testIdentity() Identity {
	return Identity{UserID: testUserID, ExpiresAt: time.Now().Add(time.Hour)}
}

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(filepath.Join(t.TempDir(), "bloom.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fakeCheckInRemote is an in-memory CheckInRemote. With fail set, every
// call reports a network-style error.
type fakeCheckInRemote struct {
	rows map[string]models.DailyCheckIn // keyed by date
	fail bool
}

func newFakeCheckInRemote() *fakeCheckInRemote {
	return &fakeCheckInRemote{rows: make(map[string]models.DailyCheckIn)}
}

func (f *fakeCheckInRemote) List(_ context.Context, userID string) ([]models.DailyCheckIn, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	var out []models.DailyCheckIn
	for _, c := range f.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeCheckInRemote) Upsert(_ context.Context, userID string, c *models.DailyCheckIn) error {
	if f.fail {
		return fmt.Errorf("connection refused")
	}
	f.rows[c.Date] = *c
	return nil
}

func (f *fakeCheckInRemote) GetByDate(_ context.Context, userID, date string) (*models.DailyCheckIn, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	if c, ok := f.rows[date]; ok {
		return &c, nil
	}
	return nil, nil
}

type fakeTimeBlockRemote struct {
	rows []models.TimeBlock
	fail bool
}

func (f *fakeTimeBlockRemote) List(_ context.Context, userID string) ([]models.TimeBlock, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	return append([]models.TimeBlock(nil), f.rows...), nil
}

func (f *fakeTimeBlockRemote) ReplaceDay(_ context.Context, userID, day string, blocks []models.TimeBlock) error {
	if f.fail {
		return fmt.Errorf("connection refused")
	}
	var kept []models.TimeBlock
	for _, b := range f.rows {
		if b.Day != day {
			kept = append(kept, b)
		}
	}
	f.rows = append(kept, blocks...)
	return nil
}

type fakeActivityRemote struct {
	rows map[string]models.SelfCareActivity
	fail bool
}

func newFakeActivityRemote() *fakeActivityRemote {
	return &fakeActivityRemote{rows: make(map[string]models.SelfCareActivity)}
}

func (f *fakeActivityRemote) List(_ context.Context, userID string) ([]models.SelfCareActivity, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	var out []models.SelfCareActivity
	for _, a := range f.rows {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeActivityRemote) Upsert(_ context.Context, userID string, a *models.SelfCareActivity) error {
	if f.fail {
		return fmt.Errorf("connection refused")
	}
	f.rows[a.ID] = *a
	return nil
}

func TestWriteAndReadWithoutIdentity(t *testing.T) {
	// Records saved with no remote identity must be fully readable from
	// the local path, regardless of remote availability.
	local := newTestStore(t)
	remote := newFakeCheckInRemote()
	svc := NewSyncService(local, Remotes{CheckIns: remote}, nil)
	ctx := context.Background()

	saved := svc.SaveCheckIn(ctx, Identity{}, models.DailyCheckIn{
		Date: "2024-03-01", Mood: 4, Stress: 2, Energy: 3, Gratitude: []string{"coffee"},
	})
	if saved.ID == "" {
		t.Error("expected an assigned ID")
	}

	got := svc.CheckIns(ctx, Identity{})
	if len(got) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(got))
	}
	if got[0].Mood != 4 || got[0].Date != "2024-03-01" || len(got[0].Gratitude) != 1 {
		t.Errorf("check-in fields not preserved: %+v", got[0])
	}
	if len(remote.rows) != 0 {
		t.Errorf("anonymous write must not touch the remote, found %d rows", len(remote.rows))
	}
}

func TestCheckInUpsertByDate(t *testing.T) {
	// Two same-date saves leave exactly one record per store, carrying
	// the second write's values.
	local := newTestStore(t)
	remote := newFakeCheckInRemote()
	svc := NewSyncService(local, Remotes{CheckIns: remote}, nil)
	ctx := context.Background()
	id := testIdentity()

	svc.SaveCheckIn(ctx, id, models.DailyCheckIn{Date: "2024-03-01", Mood: 4, Stress: 2, Energy: 3})
	svc.SaveCheckIn(ctx, id, models.DailyCheckIn{Date: "2024-03-01", Mood: 2, Stress: 5, Energy: 1})

	localRows := localstore.GetAll[models.DailyCheckIn](local, localstore.KeyDailyCheckIns)
	if len(localRows) != 1 {
		t.Fatalf("expected 1 local record, got %d", len(localRows))
	}
	if localRows[0].Mood != 2 {
		t.Errorf("expected second write to win locally, got mood %d", localRows[0].Mood)
	}

	if len(remote.rows) != 1 {
		t.Fatalf("expected 1 remote record, got %d", len(remote.rows))
	}
	if remote.rows["2024-03-01"].Mood != 2 {
		t.Errorf("expected second write to win remotely, got mood %d", remote.rows["2024-03-01"].Mood)
	}
}

func TestRemotePrecedenceOverwritesCache(t *testing.T) {
	// A non-empty remote wins over a different local cache, and the
	// cache is overwritten to match.
	local := newTestStore(t)
	localstore.SaveAll(local, localstore.KeyDailyCheckIns, []models.DailyCheckIn{
		{ID: "stale", Date: "2024-01-01", Mood: 1, Stress: 1, Energy: 1},
	})

	remote := newFakeCheckInRemote()
	remote.rows["2024-02-01"] = models.DailyCheckIn{ID: "r1", Date: "2024-02-01", Mood: 5, Stress: 1, Energy: 5}
	remote.rows["2024-02-02"] = models.DailyCheckIn{ID: "r2", Date: "2024-02-02", Mood: 3, Stress: 3, Energy: 3}

	svc := NewSyncService(local, Remotes{CheckIns: remote}, nil)
	got := svc.CheckIns(context.Background(), testIdentity())

	if len(got) != 2 {
		t.Fatalf("expected the 2 remote check-ins, got %d", len(got))
	}
	if got[0].Date != "2024-02-02" {
		t.Errorf("expected newest remote first, got %s", got[0].Date)
	}

	cached := localstore.GetAll[models.DailyCheckIn](local, localstore.KeyDailyCheckIns)
	if len(cached) != 2 || cached[0].ID == "stale" || cached[1].ID == "stale" {
		t.Errorf("local cache not overwritten by remote result: %+v", cached)
	}
}

func TestRemoteFailureFallsBackToCache(t *testing.T) {
	// With an identity present but the remote failing, reads return the
	// previous local cache instead of an error or an empty result.
	local := newTestStore(t)
	localstore.SaveAll(local, localstore.KeyDailyCheckIns, []models.DailyCheckIn{
		{ID: "c1", Date: "2024-01-01", Mood: 3, Stress: 3, Energy: 3},
	})

	remote := newFakeCheckInRemote()
	remote.fail = true
	svc := NewSyncService(local, Remotes{CheckIns: remote}, nil)

	got := svc.CheckIns(context.Background(), testIdentity())
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("expected cached check-in on remote failure, got %+v", got)
	}
}

func TestEmptyRemoteFallsBackToCache(t *testing.T) {
	// An empty remote result is treated as "not yet synced", not as
	// truth: local history survives a fresh sign-in.
	local := newTestStore(t)
	localstore.SaveAll(local, localstore.KeyDailyCheckIns, []models.DailyCheckIn{
		{ID: "c1", Date: "2024-01-01", Mood: 3, Stress: 3, Energy: 3},
	})

	svc := NewSyncService(local, Remotes{CheckIns: newFakeCheckInRemote()}, nil)
	got := svc.CheckIns(context.Background(), testIdentity())
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("expected local history to survive empty remote, got %+v", got)
	}
}

func TestWriteSurvivesFailedMirror(t *testing.T) {
	// A failed mirror leaves the local write intact and retrievable.
	local := newTestStore(t)
	remote := newFakeCheckInRemote()
	remote.fail = true
	svc := NewSyncService(local, Remotes{CheckIns: remote}, nil)
	ctx := context.Background()

	svc.SaveCheckIn(ctx, testIdentity(), models.DailyCheckIn{Date: "2024-03-01", Mood: 4, Stress: 2, Energy: 3})

	got := svc.CheckIns(ctx, Identity{})
	if len(got) != 1 || got[0].Mood != 4 {
		t.Errorf("expected local write to survive failed mirror, got %+v", got)
	}
	if len(remote.rows) != 0 {
		t.Errorf("remote should have no rows after failed mirror, got %d", len(remote.rows))
	}
}

func TestTodayCheckInLocalFallback(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)
	ctx := context.Background()

	if got := svc.TodayCheckIn(ctx, Identity{}); got != nil {
		t.Fatalf("expected no check-in, got %+v", got)
	}

	// Dates are stamped on the UTC calendar; the lookup must use the same
	// zone or the two disagree around midnight.
	today := time.Now().UTC().Format("2006-01-02")
	svc.SaveCheckIn(ctx, Identity{}, models.DailyCheckIn{Date: today, Mood: 5, Stress: 1, Energy: 4})
	svc.SaveCheckIn(ctx, Identity{}, models.DailyCheckIn{Date: "2024-01-01", Mood: 1, Stress: 5, Energy: 1})

	got := svc.TodayCheckIn(ctx, Identity{})
	if got == nil || got.Date != today || got.Mood != 5 {
		t.Errorf("expected today's check-in, got %+v", got)
	}
}

func TestActivitiesSeedDefaultCatalog(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)
	ctx := context.Background()

	got := svc.Activities(ctx, Identity{})
	if len(got) != len(models.DefaultSelfCareActivities) {
		t.Fatalf("expected seeded catalog of %d, got %d", len(models.DefaultSelfCareActivities), len(got))
	}

	cached := localstore.GetAll[models.SelfCareActivity](local, localstore.KeySelfCare)
	if len(cached) != len(models.DefaultSelfCareActivities) {
		t.Errorf("seed not persisted locally: %d items", len(cached))
	}

	students := models.ActivitiesForRole(got, models.RoleStudent)
	for _, a := range students {
		if a.RoleTag != nil && *a.RoleTag != models.RoleStudent {
			t.Errorf("activity %s should not be visible to students", a.ID)
		}
	}
}

func TestToggleFavoritePersists(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)
	ctx := context.Background()

	svc.Activities(ctx, Identity{})
	svc.ToggleFavorite(ctx, Identity{}, "mind-1", true)

	var found bool
	for _, a := range svc.Activities(ctx, Identity{}) {
		if a.ID == "mind-1" {
			found = true
			if !a.IsFavorite {
				t.Error("favorite flag not persisted")
			}
		}
	}
	if !found {
		t.Fatal("seeded activity mind-1 missing")
	}
}

func TestFavoriteToggleKeepsCatalogWithRemote(t *testing.T) {
	// The remote holds only the rows the user has touched. After a
	// signed-in toggle mirrors one row, the next read must merge that row
	// over the catalog, not replace the catalog with it.
	local := newTestStore(t)
	remote := newFakeActivityRemote()
	svc := NewSyncService(local, Remotes{Activities: remote}, nil)
	ctx := context.Background()
	id := testIdentity()

	seeded := svc.Activities(ctx, id)
	if len(seeded) != len(models.DefaultSelfCareActivities) {
		t.Fatalf("expected seeded catalog of %d, got %d", len(models.DefaultSelfCareActivities), len(seeded))
	}

	svc.ToggleFavorite(ctx, id, "mind-1", true)
	if len(remote.rows) != 1 {
		t.Fatalf("expected 1 mirrored row, got %d", len(remote.rows))
	}

	got := svc.Activities(ctx, id)
	if len(got) != len(models.DefaultSelfCareActivities) {
		t.Fatalf("catalog collapsed: expected %d activities after a favorite toggle, got %d",
			len(models.DefaultSelfCareActivities), len(got))
	}
	for _, a := range got {
		if a.ID == "mind-1" && !a.IsFavorite {
			t.Error("favorite flag lost on merged read")
		}
	}
}

func TestRemoteFavoritesMergeOverCatalog(t *testing.T) {
	// A fresh device with remote favorite rows gets the full catalog with
	// those favorites applied.
	local := newTestStore(t)
	remote := newFakeActivityRemote()
	remote.rows["body-1"] = models.SelfCareActivity{ID: "body-1", Title: "changed", IsFavorite: true}
	svc := NewSyncService(local, Remotes{Activities: remote}, nil)

	got := svc.Activities(context.Background(), testIdentity())
	if len(got) != len(models.DefaultSelfCareActivities) {
		t.Fatalf("expected full catalog, got %d", len(got))
	}
	for _, a := range got {
		if a.ID == "body-1" {
			if !a.IsFavorite || a.Title != "changed" {
				t.Errorf("remote row should win for its ID: %+v", a)
			}
		}
	}

	cached := localstore.GetAll[models.SelfCareActivity](local, localstore.KeySelfCare)
	if len(cached) != len(models.DefaultSelfCareActivities) {
		t.Errorf("merged catalog not cached: %d items", len(cached))
	}
}

func TestSaveTimeBlocksReplacesDayOnly(t *testing.T) {
	local := newTestStore(t)
	remote := &fakeTimeBlockRemote{}
	svc := NewSyncService(local, Remotes{TimeBlocks: remote}, nil)
	ctx := context.Background()
	id := testIdentity()

	svc.SaveTimeBlocksForDay(ctx, id, "Monday", []models.TimeBlock{
		{Day: "Monday", StartTime: "09:00", EndTime: "11:00", Type: models.BlockFocused},
	})
	svc.SaveTimeBlocksForDay(ctx, id, "Tuesday", []models.TimeBlock{
		{Day: "Tuesday", StartTime: "08:00", EndTime: "10:00", Type: models.BlockFixed},
	})
	// Re-save Monday with a different block; Tuesday must be untouched.
	svc.SaveTimeBlocksForDay(ctx, id, "Monday", []models.TimeBlock{
		{Day: "Monday", StartTime: "13:00", EndTime: "15:00", Type: models.BlockFlex},
	})

	days := map[string]int{}
	for _, b := range localstore.GetAll[models.TimeBlock](local, localstore.KeyTimeBlocks) {
		days[b.Day]++
	}
	if days["Monday"] != 1 || days["Tuesday"] != 1 {
		t.Errorf("expected one block per day after replace, got %v", days)
	}

	remoteDays := map[string]int{}
	for _, b := range remote.rows {
		remoteDays[b.Day]++
	}
	if remoteDays["Monday"] != 1 || remoteDays["Tuesday"] != 1 {
		t.Errorf("remote replace-by-day mismatch: %v", remoteDays)
	}
}

func TestSaveTimeBlocksDropsForeignDays(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)

	saved := svc.SaveTimeBlocksForDay(context.Background(), Identity{}, "Monday", []models.TimeBlock{
		{Day: "Monday", StartTime: "09:00", EndTime: "10:00", Type: models.BlockFixed},
		{Day: "Friday", StartTime: "09:00", EndTime: "10:00", Type: models.BlockFixed},
	})
	if len(saved) != 1 || saved[0].Day != "Monday" {
		t.Errorf("expected foreign-day blocks to be dropped, got %+v", saved)
	}
}

func TestJournalEntriesAccumulate(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)
	ctx := context.Background()

	title := "first clinical"
	svc.SaveJournalEntry(ctx, Identity{}, models.JournalEntry{Date: "2024-03-01", Title: &title, Content: "overwhelmed but proud"})
	svc.SaveJournalEntry(ctx, Identity{}, models.JournalEntry{Date: "2024-03-02", Content: "better today"})

	got := svc.JournalEntries(ctx, Identity{})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Date != "2024-03-02" {
		t.Errorf("expected newest first, got %s", got[0].Date)
	}
}

func TestResetProfileClearsLocalData(t *testing.T) {
	local := newTestStore(t)
	svc := NewSyncService(local, Remotes{}, nil)
	ctx := context.Background()

	svc.SaveProfile(ctx, Identity{}, models.UserProfile{FirstName: "Maya", Role: models.RoleStudent, HasCompletedOnboarding: true})
	svc.SaveCheckIn(ctx, Identity{}, models.DailyCheckIn{Date: "2024-03-01", Mood: 4, Stress: 2, Energy: 3})

	svc.ResetProfile(ctx, Identity{})

	if p := svc.Profile(ctx, Identity{}); p != nil {
		t.Errorf("expected no profile after reset, got %+v", p)
	}
	if got := svc.CheckIns(ctx, Identity{}); len(got) != 0 {
		t.Errorf("expected check-ins cleared by reset, got %d", len(got))
	}
}
