package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// governorABI covers the subset of the governor contract the platform calls.
const governorABI = `[
  {"name":"getProposal","type":"function","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"author","type":"address"},{"name":"title","type":"string"},{"name":"votesFor","type":"uint256"},{"name":"votesAgainst","type":"uint256"},{"name":"executed","type":"bool"}]},
  {"name":"getActiveProposals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
  {"name":"getAllMembers","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"name":"vote","type":"function","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"support","type":"bool"},{"name":"weight","type":"uint256"}],"outputs":[]},
  {"name":"createProposal","type":"function","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"endTime","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"executeProposal","type":"function","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]}
]`

// OnchainProposal mirrors the read shape of the governor contract.
type OnchainProposal struct {
	ID           uint64
	Author       string
	Title        string
	VotesFor     *big.Int
	VotesAgainst *big.Int
	Executed     bool
}

// Client is the opaque boundary to the governor contract: reads for the
// mirror, writes returning the transaction hash as the success handle.
type Client interface {
	GetProposal(ctx context.Context, id uint64) (*OnchainProposal, error)
	GetActiveProposals(ctx context.Context) ([]uint64, error)
	GetAllMembers(ctx context.Context) ([]string, error)

	Vote(ctx context.Context, id uint64, support bool, weight uint64) (string, error)
	CreateProposal(ctx context.Context, title, description string, endTime time.Time) (string, error)
	ExecuteProposal(ctx context.Context, id uint64) (string, error)
}

type governorClient struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

var _ Client = (*governorClient)(nil)

// Dial connects to the node with retries and binds the governor contract.
// keyHex may be empty for read-only use; writes then fail explicitly.
func Dial(ctx context.Context, url, contractAddr, keyHex string) (Client, error) {
	var eth *ethclient.Client

	action := func(attempt uint) error {
		var err error
		eth, err = ethclient.DialContext(ctx, url)
		return err
	}
	if err := retry.Retry(action, strategy.Limit(5), strategy.Backoff(backoff.Fibonacci(2*time.Second))); err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	parsed, err := abi.JSON(strings.NewReader(governorABI))
	if err != nil {
		return nil, fmt.Errorf("parse governor abi: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	var key *ecdsa.PrivateKey
	if keyHex != "" {
		key, err = crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse signer key: %w", err)
		}
	}

	return &governorClient{
		eth:      eth,
		contract: bind.NewBoundContract(common.HexToAddress(contractAddr), parsed, eth, eth, eth),
		key:      key,
		chainID:  chainID,
	}, nil
}

func (g *governorClient) GetProposal(ctx context.Context, id uint64) (*OnchainProposal, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	if err := g.contract.Call(opts, &out, "getProposal", new(big.Int).SetUint64(id)); err != nil {
		return nil, err
	}
	return &OnchainProposal{
		ID:           id,
		Author:       out[0].(common.Address).Hex(),
		Title:        out[1].(string),
		VotesFor:     out[2].(*big.Int),
		VotesAgainst: out[3].(*big.Int),
		Executed:     out[4].(bool),
	}, nil
}

func (g *governorClient) GetActiveProposals(ctx context.Context) ([]uint64, error) {
	var out []interface{}
	if err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getActiveProposals"); err != nil {
		return nil, err
	}
	raw := out[0].([]*big.Int)
	ids := make([]uint64, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, v.Uint64())
	}
	return ids, nil
}

func (g *governorClient) GetAllMembers(ctx context.Context) ([]string, error) {
	var out []interface{}
	if err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllMembers"); err != nil {
		return nil, err
	}
	raw := out[0].([]common.Address)
	members := make([]string, 0, len(raw))
	for _, a := range raw {
		members = append(members, a.Hex())
	}
	return members, nil
}

func (g *governorClient) Vote(ctx context.Context, id uint64, support bool, weight uint64) (string, error) {
	return g.transact(ctx, "vote", new(big.Int).SetUint64(id), support, new(big.Int).SetUint64(weight))
}

func (g *governorClient) CreateProposal(ctx context.Context, title, description string, endTime time.Time) (string, error) {
	return g.transact(ctx, "createProposal", title, description, big.NewInt(endTime.Unix()))
}

func (g *governorClient) ExecuteProposal(ctx context.Context, id uint64) (string, error) {
	return g.transact(ctx, "executeProposal", new(big.Int).SetUint64(id))
}

func (g *governorClient) transact(ctx context.Context, method string, args ...interface{}) (string, error) {
	if g.key == nil {
		return "", fmt.Errorf("no signer key configured")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(g.key, g.chainID)
	if err != nil {
		return "", err
	}
	opts.Context = ctx

	tx, err := g.contract.Transact(opts, method, args...)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}
