package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/seberle/plume/internal/masto"
)

// Phase is the profile fetch lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// LoadState is the tagged loading/data/error machine for the profile fetch.
// Account is set in PhaseLoaded and, during a refresh, retains the previous
// payload so the screen keeps rendering stale-but-present data.
type LoadState struct {
	Phase   Phase
	Account *masto.Account
	Err     error
}

var (
	// ErrNoRelationship means follow/unfollow was called before a
	// relationship was fetched.
	ErrNoRelationship = errors.New("relationship not loaded")
	// ErrToggleInFlight means a follow/unfollow was issued while another
	// toggle had not settled yet.
	ErrToggleInFlight = errors.New("follow toggle already in flight")
)

// Store owns the account screen's profile-side state: the account load
// machine, the viewer's relationship to the account, the profile fields and
// the featured tags. All mutation goes through its methods; consumers read
// point-in-time copies via Snapshot and learn about changes via Watch.
type Store struct {
	api           masto.API
	source        Source
	currentUserID string

	mu            sync.Mutex
	state         LoadState
	accountID     string
	relationship  *masto.Relationship
	fields        []masto.Field
	featuredTags  []masto.FeaturedTag
	isCurrentUser bool
	fetchGen      uint64
	toggling      bool

	notify chan struct{}
}

// NewStore builds a store for the given source. currentUserID (the id behind
// the configured token, empty when anonymous) decides whether the viewed
// account is the viewer's own. A Known source starts loaded with zero
// network calls.
func NewStore(api masto.API, source Source, currentUserID string) *Store {
	s := &Store{
		api:           api,
		source:        source,
		currentUserID: currentUserID,
		notify:        make(chan struct{}, 1),
	}
	if source.kind == sourceKnown {
		account := *source.account
		s.state = LoadState{Phase: PhaseLoaded, Account: &account}
		s.accountID = account.ID
		s.fields = account.Fields
		s.isCurrentUser = currentUserID != "" && account.ID == currentUserID
	}
	return s
}

// Watch returns a channel that receives a signal after every state change.
// Signals are coalesced; receivers should re-read Snapshot on each one.
func (s *Store) Watch() <-chan struct{} {
	return s.notify
}

// Snapshot is an immutable view of the store for rendering.
type Snapshot struct {
	State         LoadState
	Relationship  *masto.Relationship
	Fields        []masto.Field
	FeaturedTags  []masto.FeaturedTag
	IsCurrentUser bool
}

// Title returns the display name for the collapsing navigation title, or an
// empty string before the profile has loaded.
func (s Snapshot) Title() string {
	if s.State.Account == nil {
		return ""
	}
	return s.State.Account.DisplayName
}

// Following reports the derived follow toggle.
func (s Snapshot) Following() bool {
	return s.Relationship != nil && s.Relationship.Following
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:         s.state,
		Fields:        cloneFields(s.fields),
		FeaturedTags:  cloneFeaturedTags(s.featuredTags),
		IsCurrentUser: s.isCurrentUser,
	}
	if s.state.Account != nil {
		account := *s.state.Account
		snap.State.Account = &account
	}
	if s.relationship != nil {
		rel := *s.relationship
		snap.Relationship = &rel
	}
	return snap
}

// FetchAccount runs the profile pipeline: the account itself, then the
// viewer relationship and featured tags. The profile fetch drives the
// loading/data/error machine; relationship and tag failures degrade softly,
// keeping whatever was held before. Overlapping calls are coalesced: a call
// superseded by a newer one discards its result instead of applying it. The
// returned error mirrors what went into the state for callers that want it.
func (s *Store) FetchAccount(ctx context.Context) error {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	if s.state.Phase != PhaseLoaded {
		s.state = LoadState{Phase: PhaseLoading}
	}
	s.mu.Unlock()
	s.signal()

	account, err := s.resolveAccount(ctx)
	if err != nil {
		s.mu.Lock()
		if gen == s.fetchGen {
			s.state = LoadState{Phase: PhaseFailed, Err: err}
			s.mu.Unlock()
			s.signal()
		} else {
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		return nil
	}
	s.state = LoadState{Phase: PhaseLoaded, Account: account}
	s.accountID = account.ID
	s.fields = account.Fields
	s.isCurrentUser = s.currentUserID != "" && account.ID == s.currentUserID
	isCurrentUser := s.isCurrentUser
	s.mu.Unlock()
	s.signal()

	if !isCurrentUser {
		if rel, err := s.api.GetRelationship(ctx, account.ID); err != nil {
			log.Printf("relationship fetch failed: %v", err)
		} else {
			s.mu.Lock()
			if gen == s.fetchGen && !s.toggling {
				s.relationship = rel
			}
			s.mu.Unlock()
			s.signal()
		}
	}

	if tags, err := s.api.GetFeaturedTags(ctx, account.ID); err != nil {
		log.Printf("featured tags fetch failed: %v", err)
	} else {
		s.mu.Lock()
		if gen == s.fetchGen {
			s.featuredTags = tags
		}
		s.mu.Unlock()
		s.signal()
	}

	return nil
}

func (s *Store) resolveAccount(ctx context.Context) (*masto.Account, error) {
	s.mu.Lock()
	id := s.accountID
	s.mu.Unlock()

	if id != "" {
		return s.api.GetAccount(ctx, id)
	}
	switch s.source.kind {
	case sourceByAcct:
		return s.api.LookupAccount(ctx, s.source.acct)
	default:
		return s.api.GetAccount(ctx, s.source.id)
	}
}

// Follow requests to follow the account. The toggle is applied optimistically
// and replaced by the server-confirmed relationship on success; on failure
// the pre-call relationship is restored and the error returned.
func (s *Store) Follow(ctx context.Context) error {
	return s.toggle(ctx, true)
}

// Unfollow stops following the account, with the same optimistic contract as
// Follow.
func (s *Store) Unfollow(ctx context.Context) error {
	return s.toggle(ctx, false)
}

func (s *Store) toggle(ctx context.Context, follow bool) error {
	s.mu.Lock()
	if s.relationship == nil {
		s.mu.Unlock()
		return ErrNoRelationship
	}
	if s.toggling {
		s.mu.Unlock()
		return ErrToggleInFlight
	}
	s.toggling = true
	prev := *s.relationship
	optimistic := prev
	optimistic.Following = follow
	s.relationship = &optimistic
	id := s.accountID
	s.mu.Unlock()
	s.signal()

	var rel *masto.Relationship
	var err error
	if follow {
		rel, err = s.api.Follow(ctx, id)
	} else {
		rel, err = s.api.Unfollow(ctx, id)
	}

	s.mu.Lock()
	s.toggling = false
	if err != nil {
		restored := prev
		s.relationship = &restored
	} else {
		confirmed := *rel
		s.relationship = &confirmed
	}
	s.mu.Unlock()
	s.signal()

	if err != nil {
		action := "follow"
		if !follow {
			action = "unfollow"
		}
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func (s *Store) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func cloneFields(fields []masto.Field) []masto.Field {
	if len(fields) == 0 {
		return nil
	}
	dup := make([]masto.Field, len(fields))
	copy(dup, fields)
	return dup
}

func cloneFeaturedTags(tags []masto.FeaturedTag) []masto.FeaturedTag {
	if len(tags) == 0 {
		return nil
	}
	dup := make([]masto.FeaturedTag, len(tags))
	copy(dup, tags)
	return dup
}
