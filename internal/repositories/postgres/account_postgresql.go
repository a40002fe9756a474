package postgres

import (
	"context"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

type AccountPostgreSQL struct {
	db *gorm.DB
}

func NewAccountPostgreSQL(db *gorm.DB) repositories.AccountRepository {
	return &AccountPostgreSQL{db: db}
}

func (a AccountPostgreSQL) Create(ctx context.Context, account *models.Account) error {
	return translateError(a.db.WithContext(ctx).Create(account).Error)
}

func (a AccountPostgreSQL) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

func (a AccountPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

func (a AccountPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Account, error) {
	var accounts []*models.Account
	if len(ids) == 0 {
		return accounts, nil
	}
	if err := a.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a AccountPostgreSQL) UpdateSessionID(ctx context.Context, id, sessionID string) error {
	result := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("current_session_id", sessionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
