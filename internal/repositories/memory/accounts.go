package memory

import (
	"context"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

type accountStore struct{ s *Store }

func (a accountStore) Create(ctx context.Context, account *models.Account) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.accounts[account.ID]; ok {
		return repositories.ErrDuplicate
	}
	for _, existing := range a.s.accounts {
		if existing.Email == account.Email {
			return repositories.ErrDuplicate
		}
	}
	a.s.accounts[account.ID] = *account
	a.s.track(account.ID)
	return nil
}

func (a accountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	account, ok := a.s.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &account, nil
}

func (a accountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, account := range a.s.accounts {
		if account.Email == email {
			found := account
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (a accountStore) GetByIDs(ctx context.Context, ids []string) ([]*models.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	out := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		if account, ok := a.s.accounts[id]; ok {
			found := account
			out = append(out, &found)
		}
	}
	return out, nil
}

func (a accountStore) UpdateSessionID(ctx context.Context, id, sessionID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	account, ok := a.s.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	account.CurrentSessionID = sessionID
	a.s.accounts[id] = account
	return nil
}
