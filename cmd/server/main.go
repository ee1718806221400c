package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mtamaki/office-peak/internal/business/occupancy"
	"github.com/mtamaki/office-peak/internal/business/report"
	"github.com/mtamaki/office-peak/internal/platform/config"
	firestoreclient "github.com/mtamaki/office-peak/internal/platform/firestore"
	apirouter "github.com/mtamaki/office-peak/internal/platform/http"
	"github.com/mtamaki/office-peak/internal/platform/jamf"
	"github.com/mtamaki/office-peak/internal/platform/schedule"
	"github.com/mtamaki/office-peak/internal/platform/slack"
	"github.com/mtamaki/office-peak/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	loc := cfg.Location()

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer firestoreClient.Close()

	if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
		log.Fatalf("firestore ping: %v", err)
	}
	log.Printf("connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	peakRepo := repository.NewPeakRepository(firestoreClient)
	historyRepo := repository.NewHistoryRepository(firestoreClient)

	inventory := jamf.New(nil, jamf.Config{
		BaseURL:      cfg.JamfURL,
		ClientID:     cfg.JamfClientID,
		ClientSecret: cfg.JamfClientSecret,
		Username:     cfg.JamfUser,
		Password:     cfg.JamfPass,
	})
	notifier := slack.New(nil, cfg.SlackWebhookURL)

	ranges := occupancy.NormalizeRanges(cfg.OfficeNets)
	tracker := occupancy.NewTracker(inventory, peakRepo, ranges, loc)
	reporter := report.NewService(peakRepo, historyRepo, notifier, loc)

	scheduler, err := schedule.New(loc, schedule.Specs{
		Poll:        cfg.PollCron,
		DailyReport: cfg.ReportCron,
		MonthEnd:    cfg.MonthEndCron,
	}, schedule.Jobs{
		Poll: func(ctx context.Context) error {
			_, err := tracker.Poll(ctx)
			return err
		},
		DailyReport: reporter.DailyReport,
		MonthEnd:    reporter.MonthEndCheck,
	})
	if err != nil {
		log.Fatalf("scheduler init: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := apirouter.NewRouter(historyRepo, apirouter.Triggers{
		Poll:          tracker.Poll,
		DailyReport:   reporter.DailyReport,
		MonthlyReport: reporter.MonthlyReport,
		CurrentMonth: func() string {
			return time.Now().In(loc).Format("2006-01")
		},
	}, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on :%s", cfg.Port)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server exited")
}
