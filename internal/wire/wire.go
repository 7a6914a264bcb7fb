// Package wire provides dependency injection for the stratdesk application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/stratdesk/internal/adapters/sqlite"
	"github.com/example/stratdesk/internal/app"
	"github.com/example/stratdesk/internal/config"
	"github.com/example/stratdesk/internal/db"
	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/session"
)

var (
	clientService       primary.ClientService
	taskService         primary.TaskService
	notificationService primary.NotificationService
	reportService       primary.ReportService
	sessionContext      *session.Context
	once                sync.Once
)

// ClientService returns the singleton ClientService instance.
func ClientService() primary.ClientService {
	once.Do(initServices)
	return clientService
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	once.Do(initServices)
	return notificationService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// Session returns the resolved employee session.
func Session() *session.Context {
	once.Do(initServices)
	return sessionContext
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DBPath != "" {
		db.SetDBPath(cfg.DBPath)
	}

	// Resolve the employee identity once: env overrides the persisted blob.
	sessionContext, err = session.Resolve(
		session.Env{},
		session.File{Loader: config.NewSessionStore()},
	)
	if err != nil {
		log.Fatalf("failed to resolve session: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	clientRepo := sqlite.NewClientRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	cycleRepo := sqlite.NewCycleRepository(database)
	notifRepo := sqlite.NewNotificationRepository(database)

	// Create services (primary ports implementation)
	clientService = app.NewClientService(clientRepo, cycleRepo, notifRepo, sessionContext)
	taskService = app.NewTaskService(taskRepo, clientRepo, notifRepo, sessionContext)
	notificationService = app.NewNotificationService(notifRepo, sessionContext)
	reportService = app.NewReportService(clientService, taskService)
}
