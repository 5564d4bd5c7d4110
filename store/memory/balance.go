package memory

import (
	"context"
	"sync"

	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

type balanceStore struct {
	mux      sync.Mutex
	balances map[[2]string]*uint256.Int
}

// NewBalanceStore new memory balance store
func NewBalanceStore() core.IBalanceStore {
	return &balanceStore{balances: make(map[[2]string]*uint256.Int)}
}

func (s *balanceStore) Find(ctx context.Context, assetID, holder string) (*uint256.Int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	return number.Clone(s.balances[[2]string{assetID, holder}]), nil
}

func (s *balanceStore) Move(ctx context.Context, assetID, from, to string, amount *uint256.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	fromKey, toKey := [2]string{assetID, from}, [2]string{assetID, to}
	balance := number.Clone(s.balances[fromKey])
	if balance.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	credited, err := number.Add(number.Clone(s.balances[toKey]), amount)
	if err != nil {
		return err
	}

	s.balances[fromKey] = new(uint256.Int).Sub(balance, amount)
	if from == to {
		s.balances[toKey] = balance
		return nil
	}

	s.balances[toKey] = credited
	return nil
}

func (s *balanceStore) Mint(ctx context.Context, assetID, to string, amount *uint256.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	key := [2]string{assetID, to}
	balance, err := number.Add(number.Clone(s.balances[key]), amount)
	if err != nil {
		return err
	}

	s.balances[key] = balance
	return nil
}

func (s *balanceStore) Burn(ctx context.Context, assetID, from string, amount *uint256.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	key := [2]string{assetID, from}
	balance := number.Clone(s.balances[key])
	if balance.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	s.balances[key] = new(uint256.Int).Sub(balance, amount)
	return nil
}
