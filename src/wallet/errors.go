package wallet

import "errors"

var (
	// ErrNoWallet is returned when no provider is available to the session.
	ErrNoWallet = errors.New("no wallet provider found")

	// ErrProviderRequest wraps failures reported by the provider itself.
	ErrProviderRequest = errors.New("provider request failed")

	// ErrChainNotAdded is returned when the provider does not know the
	// requested chain.
	ErrChainNotAdded = errors.New("chain not added to provider")

	// ErrProviderTimeout is returned when a provider call exceeds the
	// session's timeout.
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrConnectInProgress is returned when Connect is called while another
	// connect is still pending.
	ErrConnectInProgress = errors.New("connect already in progress")
)
