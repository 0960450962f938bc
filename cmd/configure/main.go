// Command configure writes a fresh game to the state store. It is how a game
// gets its period length and period count before the operator starts it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		periodDuration = flag.Int("period-duration", 10, "period length in minutes")
		totalPeriods   = flag.Int("total-periods", 4, "number of periods in the game")
		setupFile      = flag.String("setup", "", "YAML setup file (overrides the other flags)")
		show           = flag.Bool("show", false, "print the stored game and exit")
	)
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, logger, *show, *setupFile, domain.Setup{
		PeriodDuration: *periodDuration,
		TotalPeriods:   *totalPeriods,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "configure:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, show bool, setupFile string, setup domain.Setup) error {
	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if show {
		state, err := st.Load(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("period %d/%d  %02d:%02d  local %d - guest %d  (%s)\n",
			state.CurrentPeriod, state.TotalPeriods,
			state.TimeRemaining/60, state.TimeRemaining%60,
			state.ScoreLocal, state.ScoreGuest,
			state.Status(),
		)
		return nil
	}

	if setupFile != "" {
		if setup, err = config.LoadSetup(setupFile); err != nil {
			return err
		}
	}
	if err := setup.Validate(); err != nil {
		return err
	}

	state := domain.NewGameState(setup)
	if err := st.Save(ctx, state); err != nil {
		return fmt.Errorf("save game state: %w", err)
	}

	fmt.Printf("configured %d periods of %d minutes in the %s store\n",
		setup.TotalPeriods, setup.PeriodDuration, cfg.Store.Backend)
	return nil
}
