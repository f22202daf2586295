package jobs_test

import (
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	reg := registryWith(nil)
	r := jobs.NewRunner(reg, nil, &recordingAudit{}, jobs.RunnerOptions{Clock: fixedClock})

	t.Run("valid specs", func(t *testing.T) {
		s, err := jobs.NewScheduler(r, map[string]string{"test:job": "0 0 1 * * *"}, time.UTC)
		require.NoError(t, err)
		s.Start()
		s.Stop()
	})

	t.Run("unknown job name", func(t *testing.T) {
		_, err := jobs.NewScheduler(r, map[string]string{"other:job": "0 0 1 * * *"}, time.UTC)
		assert.Error(t, err)
	})

	t.Run("bad spec", func(t *testing.T) {
		_, err := jobs.NewScheduler(r, map[string]string{"test:job": "every day"}, time.UTC)
		assert.Error(t, err)
	})
}
