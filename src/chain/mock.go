package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var _ Client = (*MockClient)(nil)

// MockClient is an in-memory governor used in tests and when no RPC endpoint
// is configured.
type MockClient struct {
	mu        sync.Mutex
	nextID    uint64
	proposals map[uint64]*OnchainProposal
	members   []string
}

func NewMockClient(members ...string) *MockClient {
	return &MockClient{
		nextID:    1,
		proposals: make(map[uint64]*OnchainProposal),
		members:   members,
	}
}

func (m *MockClient) GetProposal(ctx context.Context, id uint64) (*OnchainProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (m *MockClient) GetActiveProposals(ctx context.Context) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint64
	for id, p := range m.proposals {
		if !p.Executed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockClient) GetAllMembers(ctx context.Context) ([]string, error) {
	return append([]string(nil), m.members...), nil
}

func (m *MockClient) Vote(ctx context.Context, id uint64, support bool, weight uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return "", fmt.Errorf("proposal %d not found", id)
	}
	w := new(big.Int).SetUint64(weight)
	if support {
		p.VotesFor.Add(p.VotesFor, w)
	} else {
		p.VotesAgainst.Add(p.VotesAgainst, w)
	}
	return mockTxHash(id), nil
}

func (m *MockClient) CreateProposal(ctx context.Context, title, description string, endTime time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.proposals[id] = &OnchainProposal{
		ID:           id,
		Title:        title,
		VotesFor:     big.NewInt(0),
		VotesAgainst: big.NewInt(0),
	}
	return mockTxHash(id), nil
}

func (m *MockClient) ExecuteProposal(ctx context.Context, id uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return "", fmt.Errorf("proposal %d not found", id)
	}
	p.Executed = true
	return mockTxHash(id), nil
}

func mockTxHash(id uint64) string {
	return fmt.Sprintf("0x%064x", id)
}
