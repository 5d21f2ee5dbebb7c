package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store implementing every repository port. A single mutex keeps
// the vote uniqueness check atomic, like the table constraint it stands in for.
// ---------------------------------------------------------------------------

type memStore struct {
	mu             sync.Mutex
	seq            int
	users          map[string]*domain.User
	elections      map[string]*domain.Election
	candidates     map[string]*domain.Candidate
	constituencies map[string]*domain.Constituency
	booths         map[string]*domain.Booth
	votes          map[string]*domain.Vote // key: election|voter
	results        map[string]*domain.Result
	resultScopes   map[string]string // election|scope -> result id
	findErr        error             // if set, FindByID on elections returns it
}

func newMemStore() *memStore {
	return &memStore{
		users:          make(map[string]*domain.User),
		elections:      make(map[string]*domain.Election),
		candidates:     make(map[string]*domain.Candidate),
		constituencies: make(map[string]*domain.Constituency),
		booths:         make(map[string]*domain.Booth),
		votes:          make(map[string]*domain.Vote),
		results:        make(map[string]*domain.Result),
		resultScopes:   make(map[string]string),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

// --- users ---

type memUsers struct{ *memStore }

func (r memUsers) FindByEmailAndRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Role == role {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email && u.Role == user.Role {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = r.nextID("u")
	}
	stored := clone
	r.users[clone.ID] = &stored
	return &clone, nil
}

func (r memUsers) UpdateStatus(_ context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	clone := *u
	return &clone, nil
}

func (r memUsers) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.ConstituencyID != "" && u.ConstituencyID != f.ConstituencyID {
			continue
		}
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// --- elections ---

type memElections struct{ *memStore }

func (r memElections) Create(_ context.Context, e *domain.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = r.nextID("e")
	}
	clone := *e
	r.elections[e.ID] = &clone
	return nil
}

func (r memElections) FindByID(_ context.Context, id string) (*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	e, ok := r.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	clone := *e
	return &clone, nil
}

func (r memElections) List(_ context.Context, f ports.ListElectionsFilter) ([]*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Election
	for _, e := range r.elections {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.ExcludeCancelled && e.Status == domain.ElectionCancelled {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r memElections) UpdateStatus(_ context.Context, id string, from, to domain.ElectionStatus) (*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elections[id]
	if !ok || e.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	e.Status = to
	clone := *e
	return &clone, nil
}

// --- candidates ---

type memCandidates struct{ *memStore }

func (r memCandidates) Create(_ context.Context, c *domain.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = r.nextID("c")
	}
	clone := *c
	r.candidates[c.ID] = &clone
	return nil
}

func (r memCandidates) FindByID(_ context.Context, id string) (*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r memCandidates) List(_ context.Context, f ports.ListCandidatesFilter) ([]*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Candidate
	for _, c := range r.candidates {
		if c.ElectionID != f.ElectionID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r memCandidates) UpdateStatus(_ context.Context, id string, from, to domain.CandidateStatus) (*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok || c.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	c.Status = to
	clone := *c
	return &clone, nil
}

// --- geography ---

type memGeography struct{ *memStore }

func (r memGeography) CreateConstituency(_ context.Context, c *domain.Constituency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.constituencies {
		if existing.Code == c.Code {
			return domain.ErrConstituencyExists
		}
	}
	if c.ID == "" {
		c.ID = r.nextID("k")
	}
	clone := *c
	r.constituencies[c.ID] = &clone
	return nil
}

func (r memGeography) FindConstituency(_ context.Context, id string) (*domain.Constituency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.constituencies[id]
	if !ok {
		return nil, domain.ErrConstituencyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r memGeography) ListConstituencies(context.Context) ([]*domain.Constituency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Constituency
	for _, c := range r.constituencies {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r memGeography) CreateBooth(_ context.Context, b *domain.Booth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = r.nextID("b")
	}
	clone := *b
	r.booths[b.ID] = &clone
	return nil
}

func (r memGeography) FindBooth(_ context.Context, id string) (*domain.Booth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.booths[id]
	if !ok {
		return nil, domain.ErrBoothNotFound
	}
	clone := *b
	return &clone, nil
}

func (r memGeography) ListBooths(_ context.Context, constituencyID string) ([]*domain.Booth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booth
	for _, b := range r.booths {
		if constituencyID == "" || b.ConstituencyID == constituencyID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- votes ---

type memVotes struct {
	*memStore
	inserts int
}

func (r *memVotes) Insert(_ context.Context, v *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	key := v.ElectionID + "|" + v.VoterID
	if _, exists := r.votes[key]; exists {
		return domain.ErrAlreadyVoted
	}
	clone := *v
	r.votes[key] = &clone
	return nil
}

func (r *memVotes) FindByElectionAndVoter(_ context.Context, electionID, voterID string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[electionID+"|"+voterID]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

// --- results ---

type memResults struct{ *memStore }

func (r memResults) Regenerate(_ context.Context, scope ports.ResultScope, tabulate ports.TabulateFunc) (*domain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int64)
	for _, v := range r.votes {
		if v.ElectionID == scope.ElectionID {
			counts[v.CandidateID]++
		}
	}
	var tallies []domain.CandidateTally
	for _, c := range r.candidates {
		if c.ElectionID != scope.ElectionID {
			continue
		}
		if scope.ConstituencyID != "" && c.ConstituencyID != scope.ConstituencyID {
			continue
		}
		if c.Status != domain.CandidateActive && counts[c.ID] == 0 {
			continue
		}
		tallies = append(tallies, domain.CandidateTally{CandidateID: c.ID, Name: c.Name, Party: c.Party, Votes: counts[c.ID]})
	}
	var eligible int64
	for _, u := range r.users {
		if u.Role == domain.RoleVoter && u.Status == domain.UserActive &&
			(scope.ConstituencyID == "" || u.ConstituencyID == scope.ConstituencyID) {
			eligible++
		}
	}

	tab := tabulate(tallies, eligible)
	key := scope.ElectionID + "|" + scope.ConstituencyID
	res := &domain.Result{
		ElectionID:        scope.ElectionID,
		ConstituencyID:    scope.ConstituencyID,
		TotalVotes:        tab.TotalVotes,
		EligibleVoters:    tab.EligibleVoters,
		Turnout:           tab.Turnout,
		WinnerCandidateID: tab.WinnerCandidateID,
		Tied:              tab.Tied,
		GeneratedAt:       time.Now().UTC(),
		Candidates:        tab.Candidates,
	}
	if id, ok := r.resultScopes[key]; ok {
		prev := r.results[id]
		res.ID, res.Published, res.PublishedDate = prev.ID, prev.Published, prev.PublishedDate
	} else {
		res.ID = r.nextID("r")
		r.resultScopes[key] = res.ID
	}
	stored := *res
	r.results[res.ID] = &stored
	return res, nil
}

func (r memResults) FindByID(_ context.Context, id string) (*domain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	clone := *res
	return &clone, nil
}

// pausingResults blocks FindByID after the row is loaded until release is
// closed, signalling loaded first.
type pausingResults struct {
	memResults
	loaded  chan struct{}
	release chan struct{}
}

func (r pausingResults) FindByID(ctx context.Context, id string) (*domain.Result, error) {
	res, err := r.memResults.FindByID(ctx, id)
	close(r.loaded)
	<-r.release
	return res, err
}

func (r memResults) List(_ context.Context, f ports.ListResultsFilter) ([]*domain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Result
	for _, res := range r.results {
		if f.PublishedOnly && !res.Published {
			continue
		}
		if f.ElectionID != "" && res.ElectionID != f.ElectionID {
			continue
		}
		clone := *res
		out = append(out, &clone)
	}
	return out, nil
}

func (r memResults) SetPublished(_ context.Context, id string, published bool) (*domain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	res.Published = published
	if published && res.PublishedDate == nil {
		now := time.Now().UTC()
		res.PublishedDate = &now
	} else if !published {
		res.PublishedDate = nil
	}
	clone := *res
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubThrottle struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
	err      error
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (t *stubThrottle) Allowed(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return true, t.err
	}
	return t.failures[key] < t.max, nil
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[key]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, key)
	return nil
}

type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Result
	generations map[string]int64
	invalidated []string
	skipped     int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Result), generations: make(map[string]int64)}
}

func (c *stubCache) Generation(_ context.Context, id string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[id], nil
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (c *stubCache) Set(_ context.Context, r *domain.Result, generation int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[r.ID] != generation {
		c.skipped++
		return nil
	}
	clone := *r
	c.entries[r.ID] = &clone
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.generations[id]++
	c.invalidated = append(c.invalidated, id)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuditType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const testPassword = "correct-horse"

var (
	superadmin = domain.Identity{UserID: "sa", Role: domain.RoleSuperAdmin}
	admin      = domain.Identity{UserID: "ad", Role: domain.RoleAdmin}
)

// addUser stores an account with a real bcrypt hash of testPassword.
func (m *memStore) addUser(id string, role domain.Role, status domain.UserStatus, constituencyID string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &domain.User{
		ID:             id,
		Name:           "User " + id,
		Email:          id + "@example.com",
		PasswordHash:   string(hash),
		Role:           role,
		Status:         status,
		ConstituencyID: constituencyID,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *u
	m.users[id] = &clone
	return u
}

func (m *memStore) addElection(id string, status domain.ElectionStatus, constituencyID string) *domain.Election {
	e := &domain.Election{
		ID:             id,
		Name:           "Election " + id,
		Type:           domain.ElectionGeneral,
		Status:         status,
		ConstituencyID: constituencyID,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *e
	m.elections[id] = &clone
	return e
}

func (m *memStore) addCandidate(id, electionID string, status domain.CandidateStatus, constituencyID string) *domain.Candidate {
	c := &domain.Candidate{
		ID:             id,
		Name:           "Candidate " + id,
		ElectionID:     electionID,
		ConstituencyID: constituencyID,
		Status:         status,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *c
	m.candidates[id] = &clone
	return c
}

func (m *memStore) addConstituency(id, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constituencies[id] = &domain.Constituency{ID: id, Name: "Constituency " + code, Code: code}
}

func (m *memStore) addBooth(id, constituencyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.booths[id] = &domain.Booth{ID: id, Name: "Booth " + id, ConstituencyID: constituencyID}
}
