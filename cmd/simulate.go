/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/session"
	"go.uber.org/zap"
)

// tally keeps the events of the current battle and forwards them to an
// optional recording store.
type tally struct {
	events []engine.Event
	next   session.Store
}

func (t *tally) Append(battle uuid.UUID, events ...engine.Event) error {
	t.events = append(t.events, events...)
	if t.next != nil {
		return t.next.Append(battle, events...)
	}
	return nil
}

type simStats struct {
	runs     int
	results  map[engine.Result]int
	stalled  int
	gold     int
	rounds   int
	kills    [2]int
	losses   [2]int
	maxRound int
}

func (s *simStats) add(r *engine.Report) {
	s.runs++
	s.results[r.Result]++
	s.gold += r.Gold
	s.rounds += r.Rounds
	s.maxRound = max(s.maxRound, r.Rounds)
	for t := range s.kills {
		s.kills[t] += r.Kills[t]
		s.losses[t] += r.Losses[t]
	}
}

func (s *simStats) print() {
	if s.runs == 0 {
		fmt.Println("No battles were fought.")
		return
	}
	n := float64(s.runs)
	fmt.Printf("\nBattles:   %d (%d stalled)\n", s.runs, s.stalled)
	for _, r := range []engine.Result{engine.ResultVictory, engine.ResultDefeat} {
		fmt.Printf("%-10s %d (%.1f%%)\n", r.String()+":", s.results[r], 100*float64(s.results[r])/n)
	}
	fmt.Printf("Avg gold:  %.1f\n", float64(s.gold)/n)
	fmt.Printf("Avg rounds: %.1f (max %d)\n", float64(s.rounds)/n, s.maxRound)
	fmt.Printf("Avg kills: player %.1f, enemy %.1f\n", float64(s.kills[engine.TeamPlayer])/n, float64(s.kills[engine.TeamEnemy])/n)
	fmt.Printf("Avg stacks lost: player %.1f, enemy %.1f\n", float64(s.losses[engine.TeamPlayer])/n, float64(s.losses[engine.TeamEnemy])/n)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Run a scenario many times with the AI commanding both sides",
	Long: `Fights the scenario headless, the AI commanding both armies, and reports how
often each side wins. Seeds are consecutive from --seed so runs are reproducible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, _ := cmd.Flags().GetInt("runs")
		seed, _ := cmd.Flags().GetInt64("seed")
		limit, _ := cmd.Flags().GetInt("max-ticks")
		record, _ := cmd.Flags().GetBool("record")

		prep, err := prepare(args[0])
		if err != nil {
			return err
		}
		defer prep.log.Sync() //nolint:errcheck

		var recorder session.Store
		if record {
			archive := session.NewArchive(viper.GetString("events_dir"))
			st, err := archive.Open(prep.scenario.Name + "-sim")
			if err != nil {
				return err
			}
			defer st.Close()
			recorder = st
		}

		stats := &simStats{results: make(map[engine.Result]int)}
		bar := progressbar.Default(int64(runs), "Simulating")
		for i := 0; i < runs; i++ {
			var roller engine.Roller = engine.CryptoRoller{}
			if seed >= 0 {
				roller = engine.NewSeededRoller(uint64(seed) + uint64(i))
			}
			params, err := prep.params(roller, 0)
			if err != nil {
				return err
			}
			params.AutoPlayer = true

			b, err := engine.StartBattle(params)
			if err != nil {
				return fmt.Errorf("failed to start battle: %w", err)
			}
			t := &tally{events: b.Drain(), next: recorder}
			if recorder != nil {
				if err := recorder.Append(b.ID, t.events...); err != nil {
					return err
				}
			}

			_, err = session.New(b, t, prep.log).RunToEnd(limit)
			switch {
			case err == nil:
				stats.add(engine.Summarize(t.events))
			case errors.Is(err, session.ErrStalled):
				stats.stalled++
				prep.log.Warn("battle stalled", zap.Int("run", i), zap.Error(err))
			default:
				return err
			}
			bar.Add(1) //nolint:errcheck
		}

		stats.print()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("runs", "n", 100, "number of battles to fight")
	simulateCmd.Flags().Int64("seed", 1, "first dice seed (negative for random)")
	simulateCmd.Flags().Int("max-ticks", 10000, "give up on a battle after this many steps")
	simulateCmd.Flags().Bool("record", false, "append every simulated battle to <events_dir>/<scenario>-sim.jsonl")
}
