package chain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientProposalLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("0xAAA", "0xBBB")

	tx, err := m.CreateProposal(ctx, "Fund X", "build the thing", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, tx)

	active, err := m.GetActiveProposals(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	id := active[0]

	_, err = m.Vote(ctx, id, true, 3)
	require.NoError(t, err)
	_, err = m.Vote(ctx, id, false, 1)
	require.NoError(t, err)

	p, err := m.GetProposal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.VotesFor.Int64())
	assert.Equal(t, int64(1), p.VotesAgainst.Int64())

	_, err = m.ExecuteProposal(ctx, id)
	require.NoError(t, err)

	active, err = m.GetActiveProposals(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	members, err := m.GetAllMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xAAA", "0xBBB"}, members)
}

func TestMockClientUnknownProposal(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient()

	_, err := m.GetProposal(ctx, 42)
	assert.Error(t, err)
	_, err = m.Vote(ctx, 42, true, 1)
	assert.Error(t, err)
	_, err = m.ExecuteProposal(ctx, 42)
	assert.Error(t, err)
}
