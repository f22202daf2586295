package employee_test

import (
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestEmployee_IsWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	friday := saturday.AddDate(0, 0, -1)

	def := employee.Employee{}
	assert.True(t, def.IsWeekend(saturday))
	assert.False(t, def.IsWeekend(friday))

	custom := employee.Employee{WeekendDays: []string{"Friday", " saturday"}}
	assert.True(t, custom.IsWeekend(friday))
	assert.True(t, custom.IsWeekend(saturday))
	assert.False(t, custom.IsWeekend(saturday.AddDate(0, 0, 1)))
}

func TestEmployee_Active(t *testing.T) {
	no := false
	yes := true
	assert.True(t, employee.Employee{}.Active())
	assert.True(t, employee.Employee{IsActive: &yes}.Active())
	assert.False(t, employee.Employee{IsActive: &no}.Active())
}

func TestEmployee_JoinedBy(t *testing.T) {
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	joined := day.Add(5 * time.Hour)

	assert.False(t, employee.Employee{}.JoinedBy(day))
	assert.True(t, employee.Employee{JoiningDate: &joined}.JoinedBy(day))
	later := day.AddDate(0, 0, 1)
	assert.False(t, employee.Employee{JoiningDate: &later}.JoinedBy(day))
}
