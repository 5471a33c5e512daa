// Command main runs the database seeder for FindTogether.
package main

import (
	"context"
	"flag"
	"log"

	"findtogether/internal/config"
	"findtogether/internal/database"
	"findtogether/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of posts to create")
	reportsPerPost := flag.Int("reports", 3, "Maximum sighting reports per post")
	standalone := flag.Int("standalone", 15, "Number of standalone reports to create")
	fixture := flag.String("fixture", "", "Seed from a YAML fixture file instead of generating data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	ctx := context.Background()

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *fixture != "" {
		fx, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		if err := s.ApplyFixture(ctx, fx); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		log.Printf("Seeded %d posts and %d standalone reports from %s", len(fx.Posts), len(fx.Reports), *fixture)
		return
	}

	if err := s.Run(ctx, seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		ReportsPerPost:  *reportsPerPost,
		StandaloneCount: *standalone,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users and %d posts", *numUsers, *numPosts)
}
