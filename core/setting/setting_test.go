package setting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/tests"
)

func TestService_Get(t *testing.T) {
	env := testutil.NewEnv(time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()

	got, err := env.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, setting.SchoolSetting{
		SchoolName:                  "EduScan",
		DefaultEntryTime:            core.NewTimeOfDay(7, 0, 0),
		DefaultExitTime:             core.NewTimeOfDay(15, 0, 0),
		DefaultLateThresholdMinutes: 15,
	}, got)

	env.DB.SetSettings(setting.SchoolSetting{ID: 7, SchoolName: "SMP Negeri 1", Email: "office@smpn1.test"})
	got, err = env.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "SMP Negeri 1", got.SchoolName)
	assert.Equal(t, "office@smpn1.test", got.Email)
}
