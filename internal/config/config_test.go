package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLeavePolicy_Default(t *testing.T) {
	p, err := config.LoadLeavePolicy("")
	require.NoError(t, err)

	assert.Equal(t, 2, p.WarningDays)
	assert.Equal(t, []string{"cover_person", "manager", "admin"}, p.ApprovalSteps[config.KindAdvance])
	assert.Equal(t, []string{"manager", "admin"}, p.ApprovalSteps[config.KindPost])
	assert.Equal(t, "casual", p.DefaultLeaveType(config.KindAdvance))
	assert.Equal(t, "sick", p.DefaultLeaveType(config.KindPost))
	assert.Equal(t, "0 30 10 * * *", p.Schedule["attendance:mark-absent"])
}

func TestParseLeavePolicy_Invalid(t *testing.T) {
	base := `
warning_days: 2
office: {start: "09:30", end: "17:30"}
`
	cases := map[string]string{
		"missing post chain": base + `
approval_steps:
  advance: [cover_person, manager]
`,
		"unknown approver": base + `
approval_steps:
  advance: [cover_person, director]
  post: [manager]
`,
		"advance without cover person": base + `
approval_steps:
  advance: [manager, admin]
  post: [manager]
`,
		"cover person on post": base + `
approval_steps:
  advance: [cover_person]
  post: [cover_person, admin]
`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseLeavePolicy([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadLeavePolicy_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	raw := `
warning_days: 3
approval_steps:
  advance: [cover_person, admin]
  post: [admin]
office: {start: "08:00", end: "16:00"}
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	p, err := config.LoadLeavePolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.WarningDays)
	assert.Equal(t, []string{"admin"}, p.ApprovalSteps[config.KindPost])

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC), p.Office.StartOn(day))
	assert.Equal(t, time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC), p.Office.EndOn(day))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Dhaka")
	t.Setenv("PORT", "8080")
	t.Setenv("HOLIDAY_REGION", "DE-BW")
	t.Setenv("LEAVE_POLICY_FILE", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Dhaka", cfg.Location.String())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "de-bw", cfg.HolidayRegion)
	assert.False(t, cfg.Slack.Enabled())
}
