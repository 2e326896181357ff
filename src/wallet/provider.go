package wallet

import "context"

type EventKind int

const (
	// EventAccountsChanged carries the provider's current account list. An
	// empty list means the wallet revoked access.
	EventAccountsChanged EventKind = iota

	// EventChainChanged carries the new chain id.
	EventChainChanged
)

type Event struct {
	Kind     EventKind
	Accounts []string
	ChainID  uint64
}

// Provider is the boundary to a wallet backend: the set of calls the session
// needs plus the asynchronous event stream.
type Provider interface {
	// RequestAccounts asks the wallet for account access and returns the
	// addresses it is willing to sign as.
	RequestAccounts(ctx context.Context) ([]string, error)

	// ChainID reports the chain the provider is currently on.
	ChainID(ctx context.Context) (uint64, error)

	// Balance returns the native-token balance of addr as a decimal string.
	Balance(ctx context.Context, addr string) (string, error)

	// SwitchChain asks the provider to move to another chain. Implementations
	// return ErrChainNotAdded when the target chain is unknown to them.
	SwitchChain(ctx context.Context, chainID uint64) error

	// Events yields accountsChanged / chainChanged notifications. The channel
	// is closed when the provider shuts down.
	Events() <-chan Event

	Close()
}
