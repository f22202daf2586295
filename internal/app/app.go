package app

import (
	"github.com/Funnel-Builder/people-pulse/internal/attendance"
	"github.com/Funnel-Builder/people-pulse/internal/calendar"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/jobs"
	"github.com/Funnel-Builder/people-pulse/internal/leave"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/middleware"
	"github.com/Funnel-Builder/people-pulse/internal/rbac"
	"github.com/Funnel-Builder/people-pulse/internal/rbac/rbac_http"

	"github.com/gin-gonic/gin"
)

// BuildApp wires every module onto router.
func BuildApp(router *gin.Engine, in *Infra) error {
	m, err := buildModules(in)
	if err != nil {
		return err
	}
	registerRoutes(router, in, m)
	return nil
}

func registerRoutes(router *gin.Engine, in *Infra, m *modules) {
	cfg := in.Config
	logger := in.Logger
	secret := cfg.JWTSecret

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(m.attendance, logger)
	balanceHandler := leavebalance.NewHandler(m.balances, logger)
	employeeHandler := employee.NewHandler(m.employees, logger)
	holidayHandler := calendar.NewHandler(m.holidays, m.clock, logger)
	jobHandler := jobs.NewHandler(m.runner, cfg.Location, logger)
	leaveHandler := leave.NewHandler(m.leaves, logger)
	rbacHandler := rbac.NewHandler(m.rbac)

	router.Use(middleware.RequestID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, m.rbac, secret, logger)
		calendar.RegisterRoutes(api, holidayHandler, m.rbac, secret, logger)
		employee.RegisterRoutes(api, employeeHandler, m.rbac, secret, logger)
		jobs.RegisterRoutes(api, jobHandler, m.rbac, secret, logger)
		leave.RegisterRoutes(api, leaveHandler, m.rbac, in.Redis, secret, logger)
		leavebalance.RegisterRoutes(api, balanceHandler, m.rbac, secret, logger)
		rbac_http.RegisterRoutes(api, rbacHandler, secret)
	}
}
