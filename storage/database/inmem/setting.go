package inmemdb

import (
	"context"

	"github.com/trezcool/eduscan/core/setting"
)

type settingRepository struct {
	db *DB
}

var _ setting.Repository = (*settingRepository)(nil) // interface compliance check

func NewSettingRepository(db *DB) *settingRepository {
	return &settingRepository{db: db}
}

func (repo *settingRepository) GetSettings(ctx context.Context) (setting.SchoolSetting, error) {
	if err := ctx.Err(); err != nil {
		return setting.SchoolSetting{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.settings == nil {
		return setting.SchoolSetting{}, setting.ErrNotFound
	}
	return *repo.db.settings, nil
}
