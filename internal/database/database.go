// Package database persists game snapshots and results to Postgres. Like the
// historian, it is optional: a nil pool disables persistence entirely and the
// game runs purely in memory.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil when DATABASE_URL is unset.
var DB *pgxpool.Pool

// Init connects the pool and ensures the schema exists.
func Init(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("database: ping: %w", err)
	}
	DB = pool
	if err := migrate(ctx); err != nil {
		return err
	}
	logrus.Info("database: connected")
	return nil
}

func migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS game_snapshots (
			game_id    UUID NOT NULL,
			taken_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			state      JSONB NOT NULL,
			PRIMARY KEY (game_id, taken_at)
		)`,
		`CREATE TABLE IF NOT EXISTS game_results (
			game_id     UUID PRIMARY KEY,
			finished_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			winner_seat INT NOT NULL,
			standings   JSONB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}

// SaveSnapshot stores a full serialized game state. Called fire-and-forget
// from the session loop; failures are logged, never fatal.
func SaveSnapshot(gameID uuid.UUID, state any) {
	if DB == nil {
		return
	}
	payload, err := json.Marshal(state)
	if err != nil {
		logrus.Errorf("database: marshal snapshot for %s: %v", gameID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := DB.Exec(ctx,
		`INSERT INTO game_snapshots (game_id, state) VALUES ($1, $2)`,
		gameID, payload); err != nil {
		logrus.Errorf("database: save snapshot for %s: %v", gameID, err)
	}
}

// Standing is one row of the final result table.
type Standing struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	NetWorth int    `json:"netWorth"`
	Bankrupt bool   `json:"bankrupt"`
}

// StoreResult records the final outcome of a finished game.
func StoreResult(gameID uuid.UUID, winnerSeat int, standings []Standing) {
	if DB == nil {
		return
	}
	payload, err := json.Marshal(standings)
	if err != nil {
		logrus.Errorf("database: marshal standings for %s: %v", gameID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := DB.Exec(ctx, `
		INSERT INTO game_results (game_id, winner_seat, standings)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id) DO UPDATE
		SET winner_seat = EXCLUDED.winner_seat, standings = EXCLUDED.standings
	`, gameID, winnerSeat, payload); err != nil {
		logrus.Errorf("database: store result for %s: %v", gameID, err)
	}
}
