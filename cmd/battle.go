/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/session"
	"go.uber.org/zap"
)

var battleCmd = &cobra.Command{
	Use:   "battle <scenario.yaml>",
	Short: "Fight a scenario interactively",
	Long: `Opens the battlefield in the terminal. Your stacks stand on the left column,
the enemy on the right. Issue orders for the highlighted stack:
	> move to: 1 2
	> cast fireball at: 5 0
Every event is appended to <events_dir>/<scenario>.jsonl.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		noRecord, _ := cmd.Flags().GetBool("no-record")

		prep, err := prepare(args[0])
		if err != nil {
			return err
		}
		defer prep.log.Sync() //nolint:errcheck

		params, err := prep.params(rollerFor(seed), viper.GetInt("combat_delay"))
		if err != nil {
			return err
		}
		b, err := engine.StartBattle(params)
		if err != nil {
			return fmt.Errorf("failed to start battle: %w", err)
		}

		var store session.Store
		if !noRecord {
			archive := session.NewArchive(viper.GetString("events_dir"))
			st, err := archive.Open(prep.scenario.Name)
			if err != nil {
				return err
			}
			defer st.Close()
			store = st
			prep.log.Info("recording battle", zap.String("log", archive.LogPath(prep.scenario.Name)))
		}

		sess := session.New(b, store, prep.log)
		if err := RunBattleTUI(sess, prep.scenario.Name); err != nil {
			return fmt.Errorf("fatal TUI error: %w", err)
		}

		if o := b.Outcome(); o != nil {
			fmt.Println(outcomeLine(o))
		} else {
			fmt.Println("You left the field before the battle was decided.")
		}
		return nil
	},
}

func outcomeLine(o *engine.Outcome) string {
	switch o.Result {
	case engine.ResultVictory:
		if o.CapturedVillain != "" {
			return fmt.Sprintf("Victory! You captured %s. Spoils: %d gold", o.CapturedVillain, o.Gold)
		}
		return fmt.Sprintf("Victory! Spoils: %d gold", o.Gold)
	case engine.ResultDefeat:
		return "Your army has been defeated"
	}
	return "You flee in disgrace"
}

func init() {
	rootCmd.AddCommand(battleCmd)
	battleCmd.Flags().Int64("seed", -1, "seed the dice for a reproducible battle (negative for random)")
	battleCmd.Flags().Bool("no-record", false, "do not write the event log")
}
