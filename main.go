package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterpress/assets"
	"github.com/robalobadob/letterpress/internal/engine"
	"github.com/robalobadob/letterpress/internal/history"
	"github.com/robalobadob/letterpress/internal/httpserver"
	"github.com/robalobadob/letterpress/internal/store"
	"github.com/robalobadob/letterpress/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := history.Open(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := history.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	cfg := solverConfig()
	solver := engine.NewSolver(words.List(), cfg)
	log.Info().
		Int("dictionary", solver.WordCount()).
		Int("wordSizeLimit", cfg.WordSizeLimit).
		Int("goalWordCutoff", cfg.GoalWordCutoff).
		Msg("solver ready")

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, solver)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting letterpress server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// solverConfig overlays SOLVER_* and size settings from the environment on
// the stock configuration.
func solverConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.WordSizeLimit = getEnvInt("WORD_SIZE_LIMIT", cfg.WordSizeLimit)
	cfg.GoalWordCutoff = getEnvInt("GOAL_WORD_CUTOFF", cfg.GoalWordCutoff)
	cfg.BucketSortMin = getEnvInt("BUCKET_SORT_MIN", cfg.BucketSortMin)

	w := &cfg.Weights
	w.Defended = getEnvFloat("SOLVER_DW", w.Defended)
	w.Undefended = getEnvFloat("SOLVER_UW", w.Undefended)
	w.DefendedPopularity = getEnvFloat("SOLVER_DPW", w.DefendedPopularity)
	w.UndefendedPopularity = getEnvFloat("SOLVER_UPW", w.UndefendedPopularity)
	w.Centroid = getEnvFloat("SOLVER_MW", w.Centroid)
	return cfg
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring bad integer setting")
		return def
	}
	return n
}

func getEnvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring bad number setting")
		return def
	}
	return f
}
