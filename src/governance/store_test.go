package governance

import (
	"sync"
	"testing"
	"time"

	"github.com/Hitanshuser50/daoconnect/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDAORoundTrip(t *testing.T) {
	s := NewStore()

	d := s.CreateDAO(types.DAO{
		Name:            "Bharat DeFi",
		Description:     "community treasury",
		Category:        "DeFi",
		Treasury:        "12000 ETH",
		VotingMechanism: types.MechanismTokenWeighted,
		Quorum:          "20%",
		Tags:            []string{"defi", "india"},
	})

	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, 1, d.Members)
	assert.Equal(t, types.DAOStatusPending, d.Status)

	got := s.GetDAO(d.ID)
	require.NotNil(t, got)
	assert.Equal(t, d, *got)
}

func TestGetDAOAbsent(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.GetDAO("missing"))
}

func TestAllDAOsInsertionOrder(t *testing.T) {
	s := NewStore()
	a := s.CreateDAO(types.DAO{Name: "alpha"})
	b := s.CreateDAO(types.DAO{Name: "beta"})
	c := s.CreateDAO(types.DAO{Name: "gamma"})

	all := s.AllDAOs()
	require.Len(t, all, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestUpdateDAOMergesPatch(t *testing.T) {
	s := NewStore()
	d := s.CreateDAO(types.DAO{Name: "alpha", Treasury: "100 ETH"})

	treasury := "250 ETH"
	status := types.DAOStatusActive
	got := s.UpdateDAO(d.ID, DAOPatch{Treasury: &treasury, Status: &status})
	require.NotNil(t, got)
	assert.Equal(t, "250 ETH", got.Treasury)
	assert.Equal(t, types.DAOStatusActive, got.Status)
	assert.Equal(t, "alpha", got.Name)

	assert.Nil(t, s.UpdateDAO("missing", DAOPatch{Treasury: &treasury}))
}

func TestCreateProposalDefaults(t *testing.T) {
	s := NewStore()
	d := s.CreateDAO(types.DAO{Name: "alpha"})

	p := s.CreateProposal(types.Proposal{DAOID: d.ID, Title: "Fund X"})
	assert.NotEmpty(t, p.ID)
	assert.Zero(t, p.VotesFor)
	assert.Zero(t, p.VotesAgainst)
	assert.Zero(t, p.TotalVotes)
	assert.Equal(t, types.ProposalStatusActive, p.Status)
	assert.Equal(t, p.CreatedAt.Add(7*24*time.Hour), p.EndDate)
}

func TestProposalsByDAOFilters(t *testing.T) {
	s := NewStore()
	a := s.CreateDAO(types.DAO{Name: "alpha"})
	b := s.CreateDAO(types.DAO{Name: "beta"})

	p1 := s.CreateProposal(types.Proposal{DAOID: a.ID, Title: "one"})
	s.CreateProposal(types.Proposal{DAOID: b.ID, Title: "two"})
	p3 := s.CreateProposal(types.Proposal{DAOID: a.ID, Title: "three"})

	got := s.ProposalsByDAO(a.ID)
	require.Len(t, got, 2)
	assert.Equal(t, p1.ID, got[0].ID)
	assert.Equal(t, p3.ID, got[1].ID)
}

func TestCastVoteTallies(t *testing.T) {
	s := NewStore()
	d := s.CreateDAO(types.DAO{Name: "alpha"})
	p := s.CreateProposal(types.Proposal{DAOID: d.ID, Title: "Fund X"})

	_, tally, err := s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u1", Choice: types.VoteFor})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.VotesFor)
	assert.Equal(t, uint64(1), tally.TotalVotes)

	_, tally, err = s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u2", Choice: types.VoteAgainst, Weight: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.VotesFor)
	assert.Equal(t, uint64(3), tally.VotesAgainst)
	assert.Equal(t, uint64(4), tally.TotalVotes)

	// Abstentions are recorded but never change the for/against totals.
	_, tally, err = s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u3", Choice: types.VoteAbstain, Weight: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tally.Abstentions)
	assert.Equal(t, uint64(4), tally.TotalVotes)

	assert.Equal(t, tally.TotalVotes, tally.VotesFor+tally.VotesAgainst)
	assert.Len(t, s.VotesByProposal(p.ID), 3)
}

func TestCastVoteDuplicateRejected(t *testing.T) {
	s := NewStore()
	d := s.CreateDAO(types.DAO{Name: "alpha"})
	p := s.CreateProposal(types.Proposal{DAOID: d.ID, Title: "Fund X"})

	_, _, err := s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u1", Choice: types.VoteFor})
	require.NoError(t, err)

	_, _, err = s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u1", Choice: types.VoteAgainst})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	tally, err := s.Tally(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.VotesFor)
	assert.Equal(t, uint64(0), tally.VotesAgainst)
	assert.Equal(t, uint64(1), tally.TotalVotes)
	assert.Len(t, s.VotesByProposal(p.ID), 1)
}

func TestCastVoteUnknownProposal(t *testing.T) {
	s := NewStore()
	_, _, err := s.CastVote(types.Vote{ProposalID: "missing", UserID: "u1", Choice: types.VoteFor})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestCastVoteConcurrentDuplicates(t *testing.T) {
	s := NewStore()
	d := s.CreateDAO(types.DAO{Name: "alpha"})
	p := s.CreateProposal(types.Proposal{DAOID: d.ID, Title: "Fund X"})

	const attempts = 32
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.CastVote(types.Vote{ProposalID: p.ID, UserID: "u1", Choice: types.VoteFor})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, rejected int
	for err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateVote)
			rejected++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, rejected)

	tally, err := s.Tally(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.TotalVotes)
}

func TestEnsureUserIdempotent(t *testing.T) {
	s := NewStore()
	u1 := s.EnsureUser("0xAAA")
	u2 := s.EnsureUser("0xAAA")
	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, 0, u1.Reputation)
	assert.False(t, u1.IsVerified)

	u3 := s.EnsureUser("0xBBB")
	assert.NotEqual(t, u1.ID, u3.ID)
}

func TestSeedRestoresVoteIndex(t *testing.T) {
	s := NewStore()
	now := time.Now().UTC()
	s.Seed(
		[]types.User{{ID: "u1", Address: "0xAAA", JoinedAt: now}},
		[]types.DAO{{ID: "d1", Name: "alpha", CreatedAt: now}},
		[]types.Proposal{{ID: "p1", DAOID: "d1", Title: "Fund X", VotesFor: 1, TotalVotes: 1, Status: types.ProposalStatusActive, CreatedAt: now, EndDate: now.Add(time.Hour)}},
		[]types.Vote{{ID: "v1", ProposalID: "p1", UserID: "u1", Choice: types.VoteFor, Weight: 1, CreatedAt: now}},
	)

	_, _, err := s.CastVote(types.Vote{ProposalID: "p1", UserID: "u1", Choice: types.VoteFor})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	tally, err := s.Tally("p1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tally.VotesFor)
}
