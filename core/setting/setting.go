package setting

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/eduscan/core"
)

var ErrNotFound = errors.New("school settings not found")

// SchoolSetting describes the school. The default times are informational:
// scan classification only looks at class schedules.
type SchoolSetting struct {
	ID                          int64          `json:"id"`
	SchoolName                  string         `json:"school_name"`
	Address                     string         `json:"address"`
	Principal                   string         `json:"principal"`
	Phone                       string         `json:"phone"`
	Email                       string         `json:"email"`
	Website                     string         `json:"website"`
	LogoPath                    string         `json:"logo_path"`
	DefaultEntryTime            core.TimeOfDay `json:"default_entry_time"`
	DefaultExitTime             core.TimeOfDay `json:"default_exit_time"`
	DefaultLateThresholdMinutes int            `json:"default_late_threshold_minutes"`
	CreatedAt                   time.Time      `json:"created_at"`
	UpdatedAt                   time.Time      `json:"updated_at"`
}

// Defaults is used when no settings row exists.
func Defaults(appName string) SchoolSetting {
	return SchoolSetting{
		SchoolName:                  appName,
		DefaultEntryTime:            core.NewTimeOfDay(7, 0, 0),
		DefaultExitTime:             core.NewTimeOfDay(15, 0, 0),
		DefaultLateThresholdMinutes: 15,
	}
}

type (
	Repository interface {
		// GetSettings returns the first settings row, or ErrNotFound.
		GetSettings(ctx context.Context) (SchoolSetting, error)
	}

	Service struct {
		repo     Repository
		defaults SchoolSetting
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, defaults: Defaults(conf.AppName)}
}

func (svc *Service) Get(ctx context.Context) (SchoolSetting, error) {
	s, err := svc.repo.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return svc.defaults, nil
	}
	return s, err
}
