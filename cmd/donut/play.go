package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/observability"
)

const (
	choiceKeep    = "keep"
	choiceWeakest = "weakest"
)

type playOptions struct {
	seed     uint64
	turns    int
	choice   string
	jsonDump bool
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	po := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a headless game and print its log",
		Long: `play advances a single game until the player is defeated or the turn limit
is reached, printing every log entry. A fixed seed replays the same game.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.OutOrStdout(), opts, po)
		},
	}
	cmd.Flags().Uint64Var(&po.seed, "seed", 1, "random seed; 0 draws from crypto/rand")
	cmd.Flags().IntVar(&po.turns, "turns", 200, "maximum number of turns")
	cmd.Flags().StringVar(&po.choice, "choice", choiceWeakest, "spell choice when slots are full: keep or weakest")
	cmd.Flags().BoolVar(&po.jsonDump, "json", false, "print the final session as JSON instead of the log")
	return cmd
}

func runPlay(out io.Writer, opts *rootOptions, po *playOptions) error {
	if po.choice != choiceKeep && po.choice != choiceWeakest {
		return fmt.Errorf("invalid --choice %q: must be %q or %q", po.choice, choiceKeep, choiceWeakest)
	}
	if po.turns < 1 {
		return fmt.Errorf("invalid --turns %d: must be >= 1", po.turns)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logCfg := cfg.Logging
	logCfg.Level = "warn"
	logger, err := observability.NewLogger(logCfg, zap.String("command", "play"), zap.Uint64("seed", po.seed))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	c, err := loadContent(opts.contentDir)
	if err != nil {
		return err
	}
	engine := newEngine(cfg.Game, c, newSource(po.seed, logger), logger)
	s := session.New(engine.Model())

	for !s.GameOver && s.Turn < po.turns {
		rep := engine.Advance(s)
		if s.Player.Pending != nil {
			s.ChooseSpell(engine.Model(), autoChoice(s.Player, po.choice))
		}
		if !po.jsonDump {
			printTurn(out, rep.Turn, s.Log.Last())
		}
	}
	logger.Debug("simulation finished",
		zap.Int("turns", s.Turn),
		zap.Int("level", s.Player.Level),
		zap.Bool("game_over", s.GameOver),
	)

	if po.jsonDump {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	if s.GameOver {
		_, err = fmt.Fprintf(out, "\nGame over after %d turns at level %d.\n", s.Turn, s.Player.Level)
	} else {
		_, err = fmt.Fprintf(out, "\nStopped after %d turns at level %d.\n", s.Turn, s.Player.Level)
	}
	return err
}

// autoChoice picks the spell a pending spell overwrites. A free slot needs no
// choice.
func autoChoice(p *player.Player, strategy string) string {
	if strategy == choiceKeep || p.FreeSlots() > 0 || len(p.Spells) == 0 {
		return ""
	}
	weakest := p.Spells[0]
	for _, sp := range p.Spells[1:] {
		if sp.Level < weakest.Level {
			weakest = sp
		}
	}
	return weakest.Name
}

func printTurn(out io.Writer, n int, entries gamelog.Turn) {
	fmt.Fprintf(out, "== Turn %d ==\n", n)
	for _, e := range entries {
		fmt.Fprintln(out, e.Message)
	}
}
