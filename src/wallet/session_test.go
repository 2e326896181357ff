package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mu       sync.Mutex
	accounts []string
	chainID  uint64
	balances map[string]string
	chains   map[uint64]bool
	events   chan Event

	requestErr   error
	requestDelay time.Duration
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		accounts: []string{"0xAAA0000000000000000000000000000000000001"},
		chainID:  1,
		balances: map[string]string{"0xAAA0000000000000000000000000000000000001": "4.200000"},
		chains:   map[uint64]bool{1: true, 137: true},
		events:   make(chan Event, 16),
	}
}

func (m *mockProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if m.requestDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.requestDelay):
		}
	}
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.accounts...), nil
}

func (m *mockProvider) ChainID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chainID, nil
}

func (m *mockProvider) Balance(ctx context.Context, addr string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr], nil
}

func (m *mockProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.chains[chainID] {
		return ErrChainNotAdded
	}
	m.chainID = chainID
	return nil
}

func (m *mockProvider) Events() <-chan Event { return m.events }

func (m *mockProvider) Close() { close(m.events) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestConnectPopulatesState(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	st := s.GetState()
	assert.True(t, st.IsConnected)
	assert.Equal(t, "0xAAA0000000000000000000000000000000000001", st.Address)
	assert.Equal(t, uint64(1), st.ChainID)
	assert.Equal(t, "4.200000", st.Balance)
}

func TestConnectWithoutProvider(t *testing.T) {
	s := NewSession(nil, time.Second)
	defer s.Close()

	assert.ErrorIs(t, s.Connect(context.Background()), ErrNoWallet)
}

func TestConnectNoAccounts(t *testing.T) {
	p := newMockProvider()
	p.accounts = nil
	s := NewSession(p, time.Second)
	defer s.Close()

	err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.False(t, s.GetState().IsConnected)
}

func TestConnectIdempotentWhileConnected(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	p.mu.Lock()
	p.balances["0xAAA0000000000000000000000000000000000001"] = "9.000000"
	p.mu.Unlock()

	require.NoError(t, s.Connect(context.Background()))
	assert.Equal(t, "9.000000", s.GetState().Balance)
}

func TestConnectWhilePending(t *testing.T) {
	p := newMockProvider()
	p.requestDelay = 200 * time.Millisecond
	s := NewSession(p, time.Second)
	defer s.Close()

	done := make(chan error, 1)
	go func() { done <- s.Connect(context.Background()) }()

	waitFor(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.state == Connecting
	})
	assert.ErrorIs(t, s.Connect(context.Background()), ErrConnectInProgress)
	require.NoError(t, <-done)
}

func TestReconnectFailureNotifiesDisconnect(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	var mu sync.Mutex
	var states []WalletState
	unsub := s.Subscribe(func(st WalletState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})
	defer unsub()

	p.requestErr = ErrNoWallet
	err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.False(t, s.GetState().IsConnected)

	mu.Lock()
	require.Len(t, states, 1)
	assert.Equal(t, WalletState{}, states[0])
	mu.Unlock()
}

func TestFirstConnectFailureStaysSilent(t *testing.T) {
	p := newMockProvider()
	p.requestErr = ErrNoWallet
	s := NewSession(p, time.Second)
	defer s.Close()

	calls := 0
	unsub := s.Subscribe(func(WalletState) { calls++ })
	defer unsub()

	assert.Error(t, s.Connect(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestConnectTimeout(t *testing.T) {
	p := newMockProvider()
	p.requestDelay = time.Second
	s := NewSession(p, 50*time.Millisecond)
	defer s.Close()

	err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrProviderTimeout)
	assert.False(t, s.GetState().IsConnected)
}

func TestDisconnectResetsState(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))
	s.Disconnect()

	assert.Equal(t, WalletState{}, s.GetState())
}

func TestSwitchChainUpdatesAndNotifies(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	var mu sync.Mutex
	var states []WalletState
	unsub := s.Subscribe(func(st WalletState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})
	defer unsub()

	require.NoError(t, s.SwitchChain(context.Background(), 137))
	assert.Equal(t, uint64(137), s.GetState().ChainID)

	mu.Lock()
	require.Len(t, states, 1)
	assert.Equal(t, uint64(137), states[0].ChainID)
	mu.Unlock()
}

func TestSwitchChainUnknownChain(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))
	err := s.SwitchChain(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrChainNotAdded)
	assert.Equal(t, uint64(1), s.GetState().ChainID)
}

func TestAccountsChangedEmptyDisconnectsOnce(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	var mu sync.Mutex
	first, second := 0, 0
	unsub1 := s.Subscribe(func(st WalletState) {
		mu.Lock()
		if !st.IsConnected {
			first++
		}
		mu.Unlock()
	})
	defer unsub1()
	unsub2 := s.Subscribe(func(st WalletState) {
		mu.Lock()
		if !st.IsConnected {
			second++
		}
		mu.Unlock()
	})
	defer unsub2()

	p.events <- Event{Kind: EventAccountsChanged, Accounts: nil}

	waitFor(t, func() bool { return !s.GetState().IsConnected })
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	mu.Unlock()
}

func TestAccountsChangedUpdatesAddressAndBalance(t *testing.T) {
	p := newMockProvider()
	p.balances["0xBBB0000000000000000000000000000000000002"] = "1.000000"
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))

	p.events <- Event{Kind: EventAccountsChanged, Accounts: []string{"0xBBB0000000000000000000000000000000000002"}}

	waitFor(t, func() bool {
		st := s.GetState()
		return st.Address == "0xBBB0000000000000000000000000000000000002" && st.Balance == "1.000000"
	})
	assert.True(t, s.GetState().IsConnected)
}

func TestChainChangedUpdatesChainOnly(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	require.NoError(t, s.Connect(context.Background()))
	before := s.GetState()

	p.events <- Event{Kind: EventChainChanged, ChainID: 137}

	waitFor(t, func() bool { return s.GetState().ChainID == 137 })
	st := s.GetState()
	assert.Equal(t, before.Address, st.Address)
	assert.True(t, st.IsConnected)
}

func TestUnsubscribeLeavesOthersIntact(t *testing.T) {
	p := newMockProvider()
	s := NewSession(p, time.Second)
	defer s.Close()

	var mu sync.Mutex
	a, b := 0, 0
	unsubA := s.Subscribe(func(WalletState) { mu.Lock(); a++; mu.Unlock() })
	unsubB := s.Subscribe(func(WalletState) { mu.Lock(); b++; mu.Unlock() })
	defer unsubB()

	require.NoError(t, s.Connect(context.Background()))
	unsubA()
	s.Disconnect()

	mu.Lock()
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	mu.Unlock()
}
