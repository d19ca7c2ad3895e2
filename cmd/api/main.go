package main

import (
	"fmt"
	"net/http"

	"log/slog"
	"os"

	"github.com/aventuratime/timeclock-backend-go/internal/config"
	appHTTP "github.com/aventuratime/timeclock-backend-go/internal/handler/http"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/cron"
	"github.com/aventuratime/timeclock-backend-go/internal/pkg/database"
	"github.com/aventuratime/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/aventuratime/timeclock-backend-go/internal/service/attendance"
	importerService "github.com/aventuratime/timeclock-backend-go/internal/service/importer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	weeklyRepo := postgresql.NewWeeklyRepository(db)
	monthlyRepo := postgresql.NewMonthlyRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	derivationSvc := attendanceService.NewDerivationService(
		employeeRepo,
		punchRepo,
		scheduleRepo,
		absenceRepo,
		summaryRepo,
		weeklyRepo,
		monthlyRepo,
		notificationRepo,
		cfg.Derivation,
		logger,
	)

	// The terminal protocol client ships separately; without one the
	// download job is a no-op and punches arrive by import.
	intakeSvc := importerService.NewIntakeService(punchRepo, employeeRepo, notificationRepo, nil, logger)

	jobs := cron.NewDerivationJobs(derivationSvc, intakeSvc, cfg.Jobs, logger)
	scheduler := cron.NewScheduler(logger)
	jobs.Register(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(derivationSvc, intakeSvc, summaryRepo, weeklyRepo, monthlyRepo)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo)

	router := appHTTP.NewRouter(attendanceHandler, notificationHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
