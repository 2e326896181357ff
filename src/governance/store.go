package governance

import (
	"sync"
	"time"

	"github.com/Hitanshuser50/daoconnect/src/types"
	"github.com/google/uuid"
)

// Store holds the authoritative in-memory governance state. All four entity
// collections are owned exclusively by the store; callers only ever see
// copies. Listings preserve insertion order.
type Store struct {
	mu sync.RWMutex

	users     map[string]*types.User
	userByAdr map[string]string // address -> user id
	userOrder []string

	daos     map[string]*types.DAO
	daoOrder []string

	proposals map[string]*types.Proposal
	propOrder []string

	votes       map[string]*types.Vote
	voteOrder   []string
	votesByProp map[string][]string
	voteKey     map[string]string // proposalID + "/" + userID -> vote id
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*types.User),
		userByAdr:   make(map[string]string),
		daos:        make(map[string]*types.DAO),
		proposals:   make(map[string]*types.Proposal),
		votes:       make(map[string]*types.Vote),
		votesByProp: make(map[string][]string),
		voteKey:     make(map[string]string),
	}
}

func voteKeyFor(proposalID, userID string) string {
	return proposalID + "/" + userID
}

// EnsureUser returns the user for an address, creating one on first sight.
func (s *Store) EnsureUser(address string) types.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.userByAdr[address]; ok {
		return *s.users[id]
	}
	u := &types.User{
		ID:       uuid.NewString(),
		Address:  address,
		JoinedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.userByAdr[address] = u.ID
	s.userOrder = append(s.userOrder, u.ID)
	return *u
}

// GetUser returns the user by id, or nil when absent.
func (s *Store) GetUser(id string) *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

// CreateDAO assigns a fresh id and creation timestamp and stores the DAO.
// Name uniqueness is not enforced.
func (s *Store) CreateDAO(d types.DAO) types.DAO {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	if d.Members < 1 {
		d.Members = 1
	}
	if d.Status == "" {
		d.Status = types.DAOStatusPending
	}
	cp := d
	s.daos[cp.ID] = &cp
	s.daoOrder = append(s.daoOrder, cp.ID)
	return d
}

// GetDAO returns the DAO by id, or nil when absent. Absence is not an error.
func (s *Store) GetDAO(id string) *types.DAO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.daos[id]; ok {
		cp := *d
		return &cp
	}
	return nil
}

// AllDAOs lists every DAO in insertion order.
func (s *Store) AllDAOs() []types.DAO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DAO, 0, len(s.daoOrder))
	for _, id := range s.daoOrder {
		out = append(out, *s.daos[id])
	}
	return out
}

// DAOPatch carries the mergeable DAO fields; nil means "leave unchanged".
type DAOPatch struct {
	Name            *string
	Description     *string
	Category        *string
	Members         *int
	Treasury        *string
	Status          *string
	VotingMechanism *string
	Quorum          *string
	Tags            []string
}

// UpdateDAO merges a patch into an existing DAO and returns the result, or
// nil when the DAO does not exist.
func (s *Store) UpdateDAO(id string, patch DAOPatch) *types.DAO {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.daos[id]
	if !ok {
		return nil
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.Members != nil {
		d.Members = *patch.Members
	}
	if patch.Treasury != nil {
		d.Treasury = *patch.Treasury
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.VotingMechanism != nil {
		d.VotingMechanism = *patch.VotingMechanism
	}
	if patch.Quorum != nil {
		d.Quorum = *patch.Quorum
	}
	if patch.Tags != nil {
		d.Tags = patch.Tags
	}
	cp := *d
	return &cp
}

// CreateProposal assigns a fresh id and creation timestamp and stores the
// proposal with zeroed tallies. The daoId is taken as supplied; referential
// checks live in the service layer.
func (s *Store) CreateProposal(p types.Proposal) types.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.VotesFor = 0
	p.VotesAgainst = 0
	p.TotalVotes = 0
	if p.Status == "" {
		p.Status = types.ProposalStatusActive
	}
	if p.EndDate.IsZero() {
		p.EndDate = p.CreatedAt.Add(7 * 24 * time.Hour)
	}
	cp := p
	s.proposals[cp.ID] = &cp
	s.propOrder = append(s.propOrder, cp.ID)
	return p
}

// GetProposal returns the proposal by id, or nil when absent.
func (s *Store) GetProposal(id string) *types.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.proposals[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// AllProposals lists every proposal in insertion order.
func (s *Store) AllProposals() []types.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Proposal, 0, len(s.propOrder))
	for _, id := range s.propOrder {
		out = append(out, *s.proposals[id])
	}
	return out
}

// ProposalsByDAO filters proposals by daoId, insertion order preserved.
func (s *Store) ProposalsByDAO(daoID string) []types.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Proposal
	for _, id := range s.propOrder {
		if p := s.proposals[id]; p.DAOID == daoID {
			out = append(out, *p)
		}
	}
	return out
}

// CastVote inserts a vote if and only if no vote exists for the
// (proposalID, userID) pair, and updates the proposal tally under the same
// lock. The insert-and-tally is atomic: concurrent duplicates admit exactly
// one winner, the rest get ErrDuplicateVote with tallies untouched.
func (s *Store) CastVote(v types.Vote) (types.Vote, types.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[v.ProposalID]
	if !ok {
		return types.Vote{}, types.Tally{}, ErrEntityNotFound
	}
	key := voteKeyFor(v.ProposalID, v.UserID)
	if _, exists := s.voteKey[key]; exists {
		return types.Vote{}, types.Tally{}, ErrDuplicateVote
	}

	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()
	if v.Weight == 0 {
		v.Weight = 1
	}
	cp := v
	s.votes[cp.ID] = &cp
	s.voteOrder = append(s.voteOrder, cp.ID)
	s.votesByProp[cp.ProposalID] = append(s.votesByProp[cp.ProposalID], cp.ID)
	s.voteKey[key] = cp.ID

	switch v.Choice {
	case types.VoteFor:
		p.VotesFor += v.Weight
	case types.VoteAgainst:
		p.VotesAgainst += v.Weight
	}
	// Abstentions are recorded but never tallied.
	p.TotalVotes = p.VotesFor + p.VotesAgainst

	return v, s.tallyLocked(p), nil
}

// VotesByProposal filters votes by proposalId, insertion order preserved.
func (s *Store) VotesByProposal(proposalID string) []types.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.votesByProp[proposalID]
	out := make([]types.Vote, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.votes[id])
	}
	return out
}

// Tally returns the current voting summary for a proposal, or an
// ErrEntityNotFound when the proposal is absent.
func (s *Store) Tally(proposalID string) (types.Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[proposalID]
	if !ok {
		return types.Tally{}, ErrEntityNotFound
	}
	return s.tallyLocked(p), nil
}

func (s *Store) tallyLocked(p *types.Proposal) types.Tally {
	var abst uint64
	for _, id := range s.votesByProp[p.ID] {
		if v := s.votes[id]; v.Choice == types.VoteAbstain {
			abst += v.Weight
		}
	}
	return types.Tally{
		ProposalID:   p.ID,
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		Abstentions:  abst,
		TotalVotes:   p.TotalVotes,
	}
}

// SetProposalStatus transitions a proposal's lifecycle state. Returns the
// updated proposal, or nil when absent.
func (s *Store) SetProposalStatus(id, status string) *types.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil
	}
	p.Status = status
	cp := *p
	return &cp
}

// Seed loads previously persisted entities in bulk, preserving the order the
// slices are given in. Used when rehydrating from the mirror at boot.
func (s *Store) Seed(users []types.User, daos []types.DAO, proposals []types.Proposal, votes []types.Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
		s.userByAdr[u.Address] = u.ID
		s.userOrder = append(s.userOrder, u.ID)
	}
	for i := range daos {
		d := daos[i]
		s.daos[d.ID] = &d
		s.daoOrder = append(s.daoOrder, d.ID)
	}
	for i := range proposals {
		p := proposals[i]
		s.proposals[p.ID] = &p
		s.propOrder = append(s.propOrder, p.ID)
	}
	for i := range votes {
		v := votes[i]
		s.votes[v.ID] = &v
		s.voteOrder = append(s.voteOrder, v.ID)
		s.votesByProp[v.ProposalID] = append(s.votesByProp[v.ProposalID], v.ID)
		s.voteKey[voteKeyFor(v.ProposalID, v.UserID)] = v.ID
	}
}
