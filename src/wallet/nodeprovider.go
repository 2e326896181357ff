package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// NodeProvider adapts a JSON-RPC endpoint plus a configured account list to
// the Provider interface. It is the server-side stand-in for a browser
// injected wallet: the accounts come from configuration, chain context and
// balances from the node.
type NodeProvider struct {
	eth     *ethclient.Client
	chainID uint64
	events  chan Event

	mu       sync.Mutex
	accounts []string
}

// NewNodeProvider dials url with retries and caches the node's chain id.
func NewNodeProvider(ctx context.Context, url string, accounts []string) (*NodeProvider, error) {
	var client *ethclient.Client

	action := func(attempt uint) error {
		var err error
		client, err = ethclient.DialContext(ctx, url)
		return err
	}
	if err := retry.Retry(action, strategy.Limit(5), strategy.Backoff(backoff.Fibonacci(2*time.Second))); err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}

	return &NodeProvider{
		eth:      client,
		accounts: accounts,
		chainID:  id.Uint64(),
		events:   make(chan Event, 16),
	}, nil
}

func (p *NodeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.accounts) == 0 {
		return nil, ErrNoWallet
	}
	out := make([]string, len(p.accounts))
	copy(out, p.accounts)
	return out, nil
}

func (p *NodeProvider) ChainID(ctx context.Context) (uint64, error) {
	id, err := p.eth.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

func (p *NodeProvider) Balance(ctx context.Context, addr string) (string, error) {
	bal, err := p.eth.BalanceAt(ctx, common.HexToAddress(addr), nil)
	if err != nil {
		return "", err
	}
	return weiToDecimal(bal), nil
}

// SwitchChain succeeds only for the chain the node already serves; a single
// RPC endpoint cannot hop chains.
func (p *NodeProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	if chainID != p.chainID {
		return fmt.Errorf("%w: %d", ErrChainNotAdded, chainID)
	}
	return nil
}

func (p *NodeProvider) Events() <-chan Event { return p.events }

// SetAccounts replaces the configured account list and emits an
// accountsChanged event, mirroring a wallet-side account switch.
func (p *NodeProvider) SetAccounts(accounts []string) {
	p.mu.Lock()
	p.accounts = append([]string(nil), accounts...)
	p.mu.Unlock()
	p.events <- Event{Kind: EventAccountsChanged, Accounts: accounts}
}

func (p *NodeProvider) Close() {
	close(p.events)
	p.eth.Close()
}

// weiToDecimal renders a wei amount as a decimal ether string.
func weiToDecimal(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', 6)
}
