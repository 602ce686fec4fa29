package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"betting-insight/internal/config"
	pg "betting-insight/internal/infra/db/postgres"
)

// Seeds one pending prediction so the pipeline can be exercised end to end
// on a fresh database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	id := uuid.NewString()
	const q = `
INSERT INTO predictions (id, user_id, status, competition, home_team, away_team,
                         kickoff_at, market, pick, odds, stake, reasoning,
                         created_at, updated_at)
VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now());`

	stake := 2.5
	_, err = pool.Exec(ctx, q,
		id, "seed-user", "Premier League", "Arsenal", "Chelsea",
		time.Now().Add(48*time.Hour), "1X2", "home_win", 2.10, stake,
		"Arsenal unbeaten at home this season.")
	if err != nil {
		log.Fatalf("insert prediction: %v", err)
	}
	fmt.Printf("seeded prediction %s\n", id)
}
