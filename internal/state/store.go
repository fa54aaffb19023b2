package state

import (
	"context"
	"sync"
	"time"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// SessionIdleTTL is how long an admin's view survives without requests.
const SessionIdleTTL = 12 * time.Hour

// Snapshot is one committed booking collection for a visible month.
type Snapshot struct {
	Key       string
	Version   uint64
	Seq       uint64
	Bookings  []model.Booking
	FetchedAt time.Time
}

// Ticket identifies one in-flight fetch.
type Ticket struct {
	Key     string
	Seq     uint64
	Version uint64
}

// Fetcher loads the bookings for a snapshot key.
type Fetcher func(ctx context.Context) ([]model.Booking, error)

// Store is shared by all requests.  Snapshots are keyed by month
// ("2024-06"); the version moves on every reservation change so cached
// months are refetched.
type Store struct {
	mu       sync.Mutex
	version  uint64
	seq      uint64
	snaps    map[string]Snapshot
	sessions map[string]*Session

	ttl     time.Duration
	loc     *time.Location
	metrics *metrics.Metrics
	// Now is injectable for tests.
	Now func() time.Time
}

// NewStore returns an empty store.  ttl bounds how long a snapshot is
// served without refetching; loc is the property's timezone.
func NewStore(ttl time.Duration, loc *time.Location, m *metrics.Metrics) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		snaps:    make(map[string]Snapshot),
		sessions: make(map[string]*Session),
		ttl:      ttl,
		loc:      loc,
		metrics:  m,
		Now:      time.Now,
	}
}

// Location is the timezone "today" is computed in.
func (s *Store) Location() *time.Location { return s.loc }

// Today is the current calendar day at the property.
func (s *Store) Today() agenda.Date { return agenda.Today(s.Now, s.loc) }

// BookingsKey names the snapshot holding the admin-visible booking
// collection.  Every month is cut from it, so the cabin rows do not depend
// on which month is on screen.
const BookingsKey = "bookings"

// Begin reserves a sequence number for a fetch of key.
func (s *Store) Begin(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return Ticket{Key: key, Seq: s.seq, Version: s.version}
}

// Commit stores a fetch result unless a fetch started later has already
// committed for the same key.  It reports whether the result was kept.
func (s *Store) Commit(t Ticket, bookings []model.Booking) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.snaps[t.Key]; ok && cur.Seq > t.Seq {
		return cur, false
	}
	snap := Snapshot{Key: t.Key, Version: t.Version, Seq: t.Seq, Bookings: bookings, FetchedAt: s.Now()}
	s.snaps[t.Key] = snap
	return snap, true
}

// Fresh returns the snapshot for key if it is current and not expired.
func (s *Store) Fresh(key string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key]
	if !ok || snap.Version != s.version {
		return Snapshot{}, false
	}
	if s.ttl > 0 && s.Now().Sub(snap.FetchedAt) > s.ttl {
		return Snapshot{}, false
	}
	return snap, true
}

// Latest returns the newest committed snapshot for key, fresh or not.
func (s *Store) Latest(key string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key]
	return snap, ok
}

// Invalidate marks every snapshot stale and returns the new version.
func (s *Store) Invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// Version is the current collection version.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Load returns a fresh snapshot for key, fetching when needed.  A fetch that
// loses the race to a newer one is dropped and the newer snapshot returned.
func (s *Store) Load(ctx context.Context, key string, fetch Fetcher) (Snapshot, error) {
	if snap, ok := s.Fresh(key); ok {
		return snap, nil
	}
	t := s.Begin(key)
	bookings, err := fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap, kept := s.Commit(t, bookings)
	if !kept {
		s.metrics.StaleFetch()
	}
	return snap, nil
}

// Session returns the admin's session, creating it on first use.
func (s *Store) Session(adminID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	for id, ss := range s.sessions {
		if id != adminID && now.Sub(ss.touched()) > SessionIdleTTL {
			delete(s.sessions, id)
		}
	}
	ss, ok := s.sessions[adminID]
	if !ok {
		drag := agenda.NewDragController(nil, s.loc)
		drag.Now = s.Now
		ss = &Session{view: DefaultView(), drag: drag}
		s.sessions[adminID] = ss
	}
	ss.touch(now)
	return ss
}

// Session is one admin's view and drag gesture.  Its methods serialise
// access so overlapping requests from the same browser stay ordered.
type Session struct {
	mu       sync.Mutex
	view     View
	drag     *agenda.DragController
	lastSeen time.Time
}

func (ss *Session) touch(t time.Time) {
	ss.mu.Lock()
	ss.lastSeen = t
	ss.mu.Unlock()
}

func (ss *Session) touched() time.Time {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.lastSeen
}

// View returns the current view.
func (ss *Session) View() View {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.view
}

// Dispatch reduces actions onto the view in order and returns the result.
func (ss *Session) Dispatch(today agenda.Date, actions ...Action) View {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for _, a := range actions {
		ss.view = Reduce(ss.view, a, today)
	}
	return ss.view
}

// Drag runs fn with exclusive access to the session's drag controller,
// after pointing it at occ.
func (ss *Session) Drag(occ agenda.Occupancy, fn func(*agenda.DragController)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if occ != nil {
		ss.drag.UseOccupancy(occ)
	}
	fn(ss.drag)
}
