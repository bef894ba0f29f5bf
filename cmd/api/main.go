package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/presenzo/presence-backend-go/internal/config"
	appHTTP "github.com/presenzo/presence-backend-go/internal/handler/http"
	"github.com/presenzo/presence-backend-go/internal/pkg/cache"
	"github.com/presenzo/presence-backend-go/internal/pkg/cron"
	"github.com/presenzo/presence-backend-go/internal/pkg/database"
	"github.com/presenzo/presence-backend-go/internal/pkg/jwt"
	"github.com/presenzo/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presenzo/presence-backend-go/internal/service/attendance"
	calendarService "github.com/presenzo/presence-backend-go/internal/service/calendar"
	settingsService "github.com/presenzo/presence-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.Pool{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rdb := cache.NewRedis(cfg.Redis.Addr)
	settingsCache := cache.NewSettingsCache(rdb, cfg.Redis.SettingsTTL)

	settingsRepo := postgresql.NewSettingsRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	permissionResolver := postgresql.NewPermissionResolver(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, settingsCache)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		holidayRepo,
		settingsSvc,
		permissionResolver,
	)
	calendarSvc := calendarService.NewCalendarService(
		settingsSvc,
		permissionResolver,
		attendanceRepo,
		leaveRepo,
		holidayRepo,
		employeeRepo,
		cfg.Calendar.FetchTimeout,
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewSettingsJobs(settingsSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		calendarHandler,
		settingsHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
