package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/setting"
)

type settingRow struct {
	ID                          int64          `db:"id"`
	SchoolName                  string         `db:"school_name"`
	Address                     string         `db:"address"`
	Principal                   null.String    `db:"principal"`
	Phone                       null.String    `db:"phone"`
	Email                       null.String    `db:"email"`
	Website                     null.String    `db:"website"`
	LogoPath                    null.String    `db:"logo_path"`
	DefaultEntryTime            core.TimeOfDay `db:"default_entry_time"`
	DefaultExitTime             core.TimeOfDay `db:"default_exit_time"`
	DefaultLateThresholdMinutes int            `db:"default_late_threshold_minutes"`
	CreatedAt                   time.Time      `db:"created_at"`
	UpdatedAt                   time.Time      `db:"updated_at"`
}

type settingRepository struct {
	db  sqlx.ExtContext
	loc *time.Location
}

var _ setting.Repository = (*settingRepository)(nil) // interface compliance check

func NewSettingRepository(db sqlx.ExtContext, conf *core.Config) *settingRepository {
	return &settingRepository{db: db, loc: conf.Location()}
}

func (repo settingRepository) GetSettings(ctx context.Context) (setting.SchoolSetting, error) {
	var r settingRow
	if err := sqlx.GetContext(ctx, repo.db, &r, "SELECT * FROM school_settings ORDER BY id LIMIT 1"); err != nil {
		return setting.SchoolSetting{}, trapNoRowsErr(err, setting.ErrNotFound, "reading school settings")
	}
	return setting.SchoolSetting{
		ID:                          r.ID,
		SchoolName:                  r.SchoolName,
		Address:                     r.Address,
		Principal:                   r.Principal.String,
		Phone:                       r.Phone.String,
		Email:                       r.Email.String,
		Website:                     r.Website.String,
		LogoPath:                    r.LogoPath.String,
		DefaultEntryTime:            r.DefaultEntryTime,
		DefaultExitTime:             r.DefaultExitTime,
		DefaultLateThresholdMinutes: r.DefaultLateThresholdMinutes,
		CreatedAt:                   r.CreatedAt.In(repo.loc),
		UpdatedAt:                   r.UpdatedAt.In(repo.loc),
	}, nil
}
