package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"Prapatti/Apis"
	"Prapatti/Config"
	"Prapatti/Controllers"
	"Prapatti/CronJobs"
	"Prapatti/FiberConfig"
	"Prapatti/Models"
	"Prapatti/Screens"
	"Prapatti/Session"
)

func main() {
	cfg, err := Config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	setupLogging(cfg.LogDir)

	db, err := Models.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open journal:", err)
	}

	storage, err := Session.OpenBadger(cfg.SessionDir)
	if err != nil {
		log.Fatal("Failed to open session storage:", err)
	}
	defer storage.Close()

	sessions := Session.NewManager(storage, cfg.SessionTTL)
	workspaces := Screens.NewWorkspaces(Apis.NewClient(cfg.APIBaseURL, nil), cfg.ToastTimeout)

	sweeper := CronJobs.NewSessionSweeper(sessions, workspaces, storage, cfg.SessionIdle, false)
	if err := sweeper.Start(cfg.SweepSchedule); err != nil {
		log.Fatal("Failed to start session sweeper:", err)
	}
	defer sweeper.Stop()

	app := FiberConfig.NewApp(FiberConfig.Server{
		Config:     cfg,
		Console:    Controllers.NewConsole(Models.NewJournal(db)),
		Sessions:   sessions,
		Workspaces: workspaces,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down: %v", err)
		}
	}()

	log.Printf("Server Up on :%s, REST service %s", cfg.Port, cfg.APIBaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// setupLogging copies the standard logger into <dir>/application.log.
func setupLogging(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile(filepath.Join(dir, "application.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	log.SetFlags(log.Ldate | log.Ltime)
}
