package services

import (
	"context"
	"time"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/localstore"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Collection names used in change events and logs.
const (
	CollectionProfile    = "profile"
	CollectionCheckIns   = "checkins"
	CollectionJournal    = "journal"
	CollectionActivities = "activities"
	CollectionTimeBlocks = "timeblocks"
	CollectionShifts     = "shifts"
	CollectionBarriers   = "barriers"
	CollectionChallenges = "challenges"
)

// Remote interfaces the orchestrator depends on, satisfied by the
// repository package. A nil field means the remote side is not configured
// and the collection lives local-only.

type ProfileRemote interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Upsert(ctx context.Context, userID string, p *models.UserProfile) error
	Delete(ctx context.Context, userID string) error
}

type CheckInRemote interface {
	List(ctx context.Context, userID string) ([]models.DailyCheckIn, error)
	Upsert(ctx context.Context, userID string, c *models.DailyCheckIn) error
	GetByDate(ctx context.Context, userID, date string) (*models.DailyCheckIn, error)
}

type JournalRemote interface {
	List(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Insert(ctx context.Context, userID string, e *models.JournalEntry) error
}

type ActivityRemote interface {
	List(ctx context.Context, userID string) ([]models.SelfCareActivity, error)
	Upsert(ctx context.Context, userID string, a *models.SelfCareActivity) error
}

type TimeBlockRemote interface {
	List(ctx context.Context, userID string) ([]models.TimeBlock, error)
	ReplaceDay(ctx context.Context, userID, day string, blocks []models.TimeBlock) error
}

type ShiftRemote interface {
	List(ctx context.Context, userID string) ([]models.Shift, error)
	Insert(ctx context.Context, userID string, s *models.Shift) error
}

type ReflectionRemote interface {
	List(ctx context.Context, userID string) ([]models.ReflectionEntry, error)
	Insert(ctx context.Context, userID string, e *models.ReflectionEntry) error
}

// Remotes groups the per-collection remote clients.
type Remotes struct {
	Profiles   ProfileRemote
	CheckIns   CheckInRemote
	Journal    JournalRemote
	Activities ActivityRemote
	TimeBlocks TimeBlockRemote
	Shifts     ShiftRemote
	Barriers   ReflectionRemote
	Challenges ReflectionRemote
}

// SyncService is the facade every screen calls. It applies the same
// dual-path policy to all collections:
//
// Reads try the remote first when an identity is established; a non-empty
// remote result overwrites the local cache and is returned. Anything else
// (no identity, remote empty, remote failed) falls back to the local
// cache. An empty remote result deliberately does NOT clear local data:
// a freshly signed-in user with local-only history must not appear to
// have lost it. The cost is that a user with legitimately zero remote
// records keeps seeing stale local data.
//
// Writes always land locally first and cannot fail the caller for network
// reasons. With an identity established they are mirrored to the remote
// best-effort: no retry, no queue, no rollback of the local write when the
// mirror fails. A failed mirror surfaces only in logs.
type SyncService struct {
	local   *localstore.Store
	remotes Remotes
	hub     *Hub
}

// NewSyncService creates the orchestrator. hub may be nil when no event
// subscribers are wanted (tests).
func NewSyncService(local *localstore.Store, remotes Remotes, hub *Hub) *SyncService {
	return &SyncService{local: local, remotes: remotes, hub: hub}
}

func (s *SyncService) notify(collection, action string) {
	if s.hub != nil {
		s.hub.CollectionChanged(collection, action)
	}
}

// readCollection is the uniform dual-path read.
func readCollection[T any](ctx context.Context, s *SyncService, id Identity, key, collection string,
	remoteList func(context.Context, string) ([]T, error)) []T {

	if id.Established() && remoteList != nil {
		items, err := remoteList(ctx, id.UserID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("collection", collection).Msg("Remote read failed, using local cache")
		case len(items) > 0:
			localstore.SaveAll(s.local, key, items)
			s.notify(collection, "refreshed")
			return items
		}
	}
	return localstore.GetAll[T](s.local, key)
}

// utcToday is the UTC calendar date used for "today" lookups.
func utcToday() string {
	return time.Now().UTC().Format("2006-01-02")
}

// mirror runs the best-effort remote half of a write.
func (s *SyncService) mirror(id Identity, collection string, write func() error) {
	if !id.Established() || write == nil {
		return
	}
	if err := write(); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("Remote mirror failed, local write stands")
		return
	}
	log.Debug().Str("collection", collection).Msg("Write mirrored to remote")
}

// ---- Profile ----

// Profile returns the active profile, remote copy preferred when
// reachable. The profile is a singleton, so "non-empty" means the remote
// row exists.
func (s *SyncService) Profile(ctx context.Context, id Identity) *models.UserProfile {
	if id.Established() && s.remotes.Profiles != nil {
		p, err := s.remotes.Profiles.Get(ctx, id.UserID)
		if err != nil {
			log.Warn().Err(err).Msg("Remote profile read failed, using local cache")
		} else if p != nil {
			// Avatar lives local-only; carry it over from the cache.
			if cached, ok := localstore.GetValue[models.UserProfile](s.local, localstore.KeyUserProfile); ok {
				p.AvatarEmoji = cached.AvatarEmoji
				p.AvatarURL = cached.AvatarURL
			}
			localstore.SetValue(s.local, localstore.KeyUserProfile, *p)
			s.notify(CollectionProfile, "refreshed")
			return p
		}
	}
	if p, ok := localstore.GetValue[models.UserProfile](s.local, localstore.KeyUserProfile); ok {
		return &p
	}
	return nil
}

// SaveProfile persists the profile locally and mirrors it.
func (s *SyncService) SaveProfile(ctx context.Context, id Identity, p models.UserProfile) {
	localstore.SetValue(s.local, localstore.KeyUserProfile, p)
	s.notify(CollectionProfile, "saved")

	var write func() error
	if s.remotes.Profiles != nil {
		write = func() error { return s.remotes.Profiles.Upsert(ctx, id.UserID, &p) }
	}
	s.mirror(id, CollectionProfile, write)
}

// ResetProfile clears every local collection and deletes the remote
// profile row, restarting onboarding. Other remote collections are kept;
// only the role identity is discarded.
func (s *SyncService) ResetProfile(ctx context.Context, id Identity) {
	s.local.ClearAll()
	s.notify(CollectionProfile, "cleared")

	var write func() error
	if s.remotes.Profiles != nil {
		write = func() error { return s.remotes.Profiles.Delete(ctx, id.UserID) }
	}
	s.mirror(id, CollectionProfile, write)
}

// ---- Daily check-ins ----

// CheckIns returns the check-in history, newest first.
func (s *SyncService) CheckIns(ctx context.Context, id Identity) []models.DailyCheckIn {
	var list func(context.Context, string) ([]models.DailyCheckIn, error)
	if s.remotes.CheckIns != nil {
		list = s.remotes.CheckIns.List
	}
	return readCollection(ctx, s, id, localstore.KeyDailyCheckIns, CollectionCheckIns, list)
}

// SaveCheckIn upserts by date in both stores: a second check-in on the
// same day overwrites the first, it never appends.
func (s *SyncService) SaveCheckIn(ctx context.Context, id Identity, c models.DailyCheckIn) models.DailyCheckIn {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	localstore.UpsertOne(s.local, localstore.KeyDailyCheckIns, c,
		func(existing models.DailyCheckIn) bool { return existing.Date == c.Date })
	s.notify(CollectionCheckIns, "saved")

	var write func() error
	if s.remotes.CheckIns != nil {
		write = func() error { return s.remotes.CheckIns.Upsert(ctx, id.UserID, &c) }
	}
	s.mirror(id, CollectionCheckIns, write)
	return c
}

// TodayCheckIn returns today's check-in or nil. The remote path is a
// narrow by-date query, not list-and-filter. "Today" is the UTC calendar
// date, matching how the app shell stamps check-in dates; using the
// device zone here would disagree with saved dates around midnight.
func (s *SyncService) TodayCheckIn(ctx context.Context, id Identity) *models.DailyCheckIn {
	today := utcToday()

	if id.Established() && s.remotes.CheckIns != nil {
		c, err := s.remotes.CheckIns.GetByDate(ctx, id.UserID, today)
		if err != nil {
			log.Warn().Err(err).Msg("Remote today check-in read failed, using local cache")
		} else if c != nil {
			return c
		}
	}
	for _, c := range localstore.GetAll[models.DailyCheckIn](s.local, localstore.KeyDailyCheckIns) {
		if c.Date == today {
			return &c
		}
	}
	return nil
}

// ---- Journal ----

// JournalEntries returns the journal, newest first.
func (s *SyncService) JournalEntries(ctx context.Context, id Identity) []models.JournalEntry {
	var list func(context.Context, string) ([]models.JournalEntry, error)
	if s.remotes.Journal != nil {
		list = s.remotes.Journal.List
	}
	return readCollection(ctx, s, id, localstore.KeyJournalEntries, CollectionJournal, list)
}

// SaveJournalEntry appends one entry. Entries accumulate; there is no
// update or delete.
func (s *SyncService) SaveJournalEntry(ctx context.Context, id Identity, e models.JournalEntry) models.JournalEntry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	localstore.UpsertOne(s.local, localstore.KeyJournalEntries, e,
		func(existing models.JournalEntry) bool { return existing.ID == e.ID })
	s.notify(CollectionJournal, "saved")

	var write func() error
	if s.remotes.Journal != nil {
		write = func() error { return s.remotes.Journal.Insert(ctx, id.UserID, &e) }
	}
	s.mirror(id, CollectionJournal, write)
	return e
}

// ---- Self-care activities ----

// Activities returns the catalog, seeding the defaults when the local
// store is empty (first run). The remote holds only the rows the user has
// touched, so remote rows are merged over the catalog by ID instead of
// replacing it wholesale: a single mirrored favorite must not collapse
// the catalog to one entry on the next read.
func (s *SyncService) Activities(ctx context.Context, id Identity) []models.SelfCareActivity {
	activities := localstore.GetAll[models.SelfCareActivity](s.local, localstore.KeySelfCare)
	changed := false
	if len(activities) == 0 {
		activities = append([]models.SelfCareActivity(nil), models.DefaultSelfCareActivities...)
		changed = true
		log.Info().Int("count", len(activities)).Msg("Seeded default self-care catalog")
	}

	if id.Established() && s.remotes.Activities != nil {
		remote, err := s.remotes.Activities.List(ctx, id.UserID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("collection", CollectionActivities).Msg("Remote read failed, using local catalog")
		case len(remote) > 0:
			activities = mergeActivities(activities, remote)
			changed = true
			s.notify(CollectionActivities, "refreshed")
		}
	}

	if changed {
		localstore.SaveAll(s.local, localstore.KeySelfCare, activities)
	}
	return activities
}

// mergeActivities overlays remote rows on the catalog by ID, keeping the
// catalog's order. Remote rows the catalog does not know are appended.
func mergeActivities(catalog, remote []models.SelfCareActivity) []models.SelfCareActivity {
	byID := make(map[string]models.SelfCareActivity, len(remote))
	for _, a := range remote {
		byID[a.ID] = a
	}
	merged := make([]models.SelfCareActivity, 0, len(catalog)+len(remote))
	for _, a := range catalog {
		if r, ok := byID[a.ID]; ok {
			merged = append(merged, r)
			delete(byID, a.ID)
		} else {
			merged = append(merged, a)
		}
	}
	for _, a := range remote {
		if _, ok := byID[a.ID]; ok {
			merged = append(merged, a)
		}
	}
	return merged
}

// ToggleFavorite flips one activity's favorite flag and mirrors it.
func (s *SyncService) ToggleFavorite(ctx context.Context, id Identity, activityID string, favorite bool) {
	activities := s.Activities(ctx, id)
	var toggled *models.SelfCareActivity
	for i := range activities {
		if activities[i].ID == activityID {
			activities[i].IsFavorite = favorite
			toggled = &activities[i]
			break
		}
	}
	if toggled == nil {
		log.Warn().Str("activity_id", activityID).Msg("Favorite toggle for unknown activity")
		return
	}
	localstore.SaveAll(s.local, localstore.KeySelfCare, activities)
	s.notify(CollectionActivities, "saved")

	var write func() error
	if s.remotes.Activities != nil {
		a := *toggled
		write = func() error { return s.remotes.Activities.Upsert(ctx, id.UserID, &a) }
	}
	s.mirror(id, CollectionActivities, write)
}

// ---- Time blocks ----

// TimeBlocks returns the full weekly planner.
func (s *SyncService) TimeBlocks(ctx context.Context, id Identity) []models.TimeBlock {
	var list func(context.Context, string) ([]models.TimeBlock, error)
	if s.remotes.TimeBlocks != nil {
		list = s.remotes.TimeBlocks.List
	}
	return readCollection(ctx, s, id, localstore.KeyTimeBlocks, CollectionTimeBlocks, list)
}

// SaveTimeBlocksForDay replaces one day's blocks in both stores: blocks
// for other days are untouched. Replace-by-day is the single save policy
// for the planner.
func (s *SyncService) SaveTimeBlocksForDay(ctx context.Context, id Identity, day string, blocks []models.TimeBlock) []models.TimeBlock {
	now := time.Now().UTC()
	kept := make([]models.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Day != day {
			continue
		}
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		kept = append(kept, b)
	}

	existing := localstore.GetAll[models.TimeBlock](s.local, localstore.KeyTimeBlocks)
	updated := make([]models.TimeBlock, 0, len(existing)+len(kept))
	updated = append(updated, kept...)
	for _, b := range existing {
		if b.Day != day {
			updated = append(updated, b)
		}
	}
	localstore.SaveAll(s.local, localstore.KeyTimeBlocks, updated)
	s.notify(CollectionTimeBlocks, "saved")

	var write func() error
	if s.remotes.TimeBlocks != nil {
		write = func() error { return s.remotes.TimeBlocks.ReplaceDay(ctx, id.UserID, day, kept) }
	}
	s.mirror(id, CollectionTimeBlocks, write)
	return kept
}

// ---- Shifts ----

// Shifts returns the shift log, newest first.
func (s *SyncService) Shifts(ctx context.Context, id Identity) []models.Shift {
	var list func(context.Context, string) ([]models.Shift, error)
	if s.remotes.Shifts != nil {
		list = s.remotes.Shifts.List
	}
	return readCollection(ctx, s, id, localstore.KeyShifts, CollectionShifts, list)
}

// SaveShift appends one shift.
func (s *SyncService) SaveShift(ctx context.Context, id Identity, sh models.Shift) models.Shift {
	if sh.ID == "" {
		sh.ID = uuid.New().String()
	}
	if sh.CreatedAt.IsZero() {
		sh.CreatedAt = time.Now().UTC()
	}
	localstore.UpsertOne(s.local, localstore.KeyShifts, sh,
		func(existing models.Shift) bool { return existing.ID == sh.ID })
	s.notify(CollectionShifts, "saved")

	var write func() error
	if s.remotes.Shifts != nil {
		write = func() error { return s.remotes.Shifts.Insert(ctx, id.UserID, &sh) }
	}
	s.mirror(id, CollectionShifts, write)
	return sh
}

// ---- Barriers and challenges ----

// Barriers returns the student barrier log, newest first.
func (s *SyncService) Barriers(ctx context.Context, id Identity) []models.ReflectionEntry {
	var list func(context.Context, string) ([]models.ReflectionEntry, error)
	if s.remotes.Barriers != nil {
		list = s.remotes.Barriers.List
	}
	return readCollection(ctx, s, id, localstore.KeyBarriers, CollectionBarriers, list)
}

// SaveBarrier appends one barrier entry.
func (s *SyncService) SaveBarrier(ctx context.Context, id Identity, e models.ReflectionEntry) models.ReflectionEntry {
	return s.saveReflection(ctx, id, e, localstore.KeyBarriers, CollectionBarriers, s.remotes.Barriers)
}

// Challenges returns the RN challenge log, newest first.
func (s *SyncService) Challenges(ctx context.Context, id Identity) []models.ReflectionEntry {
	var list func(context.Context, string) ([]models.ReflectionEntry, error)
	if s.remotes.Challenges != nil {
		list = s.remotes.Challenges.List
	}
	return readCollection(ctx, s, id, localstore.KeyChallenges, CollectionChallenges, list)
}

// SaveChallenge appends one challenge entry.
func (s *SyncService) SaveChallenge(ctx context.Context, id Identity, e models.ReflectionEntry) models.ReflectionEntry {
	return s.saveReflection(ctx, id, e, localstore.KeyChallenges, CollectionChallenges, s.remotes.Challenges)
}

func (s *SyncService) saveReflection(ctx context.Context, id Identity, e models.ReflectionEntry,
	key, collection string, remote ReflectionRemote) models.ReflectionEntry {

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	localstore.UpsertOne(s.local, key, e,
		func(existing models.ReflectionEntry) bool { return existing.ID == e.ID })
	s.notify(collection, "saved")

	var write func() error
	if remote != nil {
		write = func() error { return remote.Insert(ctx, id.UserID, &e) }
	}
	s.mirror(id, collection, write)
	return e
}
