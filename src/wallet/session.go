package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// WalletState is the snapshot handed to subscribers on every transition.
type WalletState struct {
	IsConnected bool   `json:"isConnected"`
	Address     string `json:"address,omitempty"`
	ChainID     uint64 `json:"chainId,omitempty"`
	Balance     string `json:"balance,omitempty"`
}

const defaultTimeout = 15 * time.Second

// Session is the single source of truth for which address the process signs
// as. It tracks the provider's live state through its event stream and fans
// state changes out to subscribers. All provider calls are bounded by the
// session timeout.
type Session struct {
	provider Provider
	timeout  time.Duration

	mu      sync.Mutex
	state   State
	wallet  WalletState
	subs    map[int]func(WalletState)
	nextSub int

	loopOnce sync.Once
	done     chan struct{}
}

func NewSession(provider Provider, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	s := &Session{
		provider: provider,
		timeout:  timeout,
		subs:     make(map[int]func(WalletState)),
		done:     make(chan struct{}),
	}
	if provider != nil {
		s.loopOnce.Do(func() { go s.listenEvents() })
	}
	return s
}

// GetState returns the current wallet state.
func (s *Session) GetState() WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// Subscribe registers a callback invoked with the wallet state on every
// transition and returns its unsubscribe function. Unsubscribing one
// callback leaves the others untouched.
func (s *Session) Subscribe(cb func(WalletState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Connect requests account access and moves the session to Connected. Safe
// to call again while already connected: the state is re-fetched rather than
// erroring. A second call while a connect is still pending is rejected with
// ErrConnectInProgress.
func (s *Session) Connect(ctx context.Context) error {
	if s.provider == nil {
		return ErrNoWallet
	}

	s.mu.Lock()
	if s.state == Connecting {
		s.mu.Unlock()
		return ErrConnectInProgress
	}
	s.state = Connecting
	s.mu.Unlock()

	accounts, err := s.requestAccounts(ctx)
	if err != nil {
		s.resetOnError()
		return err
	}

	chainID, err := s.fetchChainID(ctx)
	if err != nil {
		s.resetOnError()
		return err
	}
	balance := s.fetchBalance(ctx, accounts[0])

	s.mu.Lock()
	s.state = Connected
	s.wallet = WalletState{
		IsConnected: true,
		Address:     accounts[0],
		ChainID:     chainID,
		Balance:     balance,
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Disconnect resets the session to its zero state. Always succeeds; a no-op
// when already disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		return
	}
	s.state = Disconnected
	s.wallet = WalletState{}
	s.mu.Unlock()

	s.notify()
}

// SwitchChain asks the provider to move to another chain and updates the
// session's chain id. Provider refusals (unknown chain) propagate to the
// caller.
func (s *Session) SwitchChain(ctx context.Context, chainID uint64) error {
	if s.provider == nil {
		return ErrNoWallet
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.provider.SwitchChain(ctx, chainID); err != nil {
		return s.mapErr(ctx, err)
	}

	s.mu.Lock()
	s.wallet.ChainID = chainID
	s.mu.Unlock()

	s.notify()
	return nil
}

// Close stops the event loop. The provider is left for the owner to close.
func (s *Session) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// resetOnError drops the session back to Disconnected after a failed
// connect. Subscribers that saw a connected state get the zeroed state;
// a first connect that never reached Connected fails silently.
func (s *Session) resetOnError() {
	s.mu.Lock()
	wasConnected := s.wallet.IsConnected
	s.state = Disconnected
	s.wallet = WalletState{}
	s.mu.Unlock()

	if wasConnected {
		s.notify()
	}
}

func (s *Session) requestAccounts(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: provider returned no accounts", ErrNoWallet)
	}
	return accounts, nil
}

func (s *Session) fetchChainID(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := s.provider.ChainID(ctx)
	if err != nil {
		return 0, s.mapErr(ctx, err)
	}
	return id, nil
}

// fetchBalance is best-effort: a missing balance never blocks a connect.
func (s *Session) fetchBalance(ctx context.Context, addr string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	bal, err := s.provider.Balance(ctx, addr)
	if err != nil {
		return ""
	}
	return bal
}

func (s *Session) mapErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	if errors.Is(err, ErrChainNotAdded) || errors.Is(err, ErrNoWallet) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProviderRequest, err)
}

// notify fans the current state out to every subscriber. Callbacks run
// outside the session lock.
func (s *Session) notify() {
	s.mu.Lock()
	state := s.wallet
	cbs := make([]func(WalletState), 0, len(s.subs))
	for _, cb := range s.subs {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(state)
	}
}

func (s *Session) listenEvents() {
	events := s.provider.Events()
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				s.Disconnect()
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *Session) handleEvent(ev Event) {
	switch ev.Kind {
	case EventAccountsChanged:
		if len(ev.Accounts) == 0 {
			s.Disconnect()
			return
		}
		s.mu.Lock()
		if s.state != Connected {
			s.mu.Unlock()
			return
		}
		s.wallet.Address = ev.Accounts[0]
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		balance := s.fetchBalance(ctx, ev.Accounts[0])
		cancel()

		s.mu.Lock()
		s.wallet.Balance = balance
		s.mu.Unlock()
		s.notify()

	case EventChainChanged:
		s.mu.Lock()
		if s.state != Connected {
			s.mu.Unlock()
			return
		}
		s.wallet.ChainID = ev.ChainID
		s.mu.Unlock()
		s.notify()
	}
}
