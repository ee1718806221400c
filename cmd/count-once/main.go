// count-once runs a single occupancy count against the configured Jamf
// instance and prints the result. With -write it also raises the stored
// daily peak, which is useful for verifying a deployment end to end.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/mtamaki/office-peak/internal/business/occupancy"
	"github.com/mtamaki/office-peak/internal/platform/config"
	firestoreclient "github.com/mtamaki/office-peak/internal/platform/firestore"
	"github.com/mtamaki/office-peak/internal/platform/jamf"
	"github.com/mtamaki/office-peak/internal/repository"
)

func main() {
	write := flag.Bool("write", false, "update the stored daily peak")
	date := flag.String("date", "", "target date YYYY-MM-DD (default: today in the configured timezone)")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	loc := cfg.Location()

	inventory := jamf.New(nil, jamf.Config{
		BaseURL:      cfg.JamfURL,
		ClientID:     cfg.JamfClientID,
		ClientSecret: cfg.JamfClientSecret,
		Username:     cfg.JamfUser,
		Password:     cfg.JamfPass,
	})
	ranges := occupancy.NormalizeRanges(cfg.OfficeNets)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	target := *date
	if target == "" {
		target = time.Now().In(loc).Format("2006-01-02")
	}

	if *write {
		client, _, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			log.Fatalf("firestore init: %v", err)
		}
		defer client.Close()

		tracker := occupancy.NewTracker(inventory, repository.NewPeakRepository(client), ranges, loc)
		count, err := tracker.Poll(ctx)
		if err != nil {
			log.Fatalf("poll: %v", err)
		}
		log.Printf("current occupancy: %d (peak updated if exceeded)", count)
		return
	}

	count, err := occupancy.Count(ctx, inventory, target, ranges)
	if err != nil {
		log.Fatalf("count: %v", err)
	}
	log.Printf("occupancy on %s: %d", target, count)
}
