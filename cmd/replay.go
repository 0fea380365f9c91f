package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/persistence"
	"github.com/suderio/warband/internal/session"
)

var replayCmd = &cobra.Command{
	Use:   "replay [log.jsonl | scenario]",
	Short: "Summarize the battles recorded in an event log",
	Long: `Reads a battle event log and prints a report per battle. The argument is
either a path or the name of a scenario recorded under events_dir. Without an
argument, lists the recorded logs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		only, _ := cmd.Flags().GetString("battle")

		archive := session.NewArchive(viper.GetString("events_dir"))
		if len(args) == 0 {
			names, err := archive.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Printf("No battles recorded in %s\n", archive.Dir)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}

		path := args[0]
		if fileMissing(path) {
			path = archive.LogPath(args[0])
		}
		if fileMissing(path) {
			return fmt.Errorf("no event log at %s", args[0])
		}
		store, err := persistence.NewStore(path)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to load event log: %w", err)
		}

		ids := persistence.Battles(records)
		if only != "" {
			id, err := uuid.Parse(only)
			if err != nil {
				return fmt.Errorf("invalid battle id: %w", err)
			}
			ids = []uuid.UUID{id}
		}

		for _, id := range ids {
			var events []engine.Event
			for _, r := range records {
				if r.Battle == id {
					events = append(events, r.Event)
				}
			}
			if len(events) == 0 {
				return fmt.Errorf("battle %s is not in %s", id, path)
			}
			printReport(id, events, verbose)
		}
		return nil
	},
}

func printReport(id uuid.UUID, events []engine.Event, verbose bool) {
	fmt.Println(titleStyle.Render(fmt.Sprintf(" Battle %s ", id)))
	if verbose {
		for _, evt := range events {
			switch evt.(type) {
			case *engine.HitShownEvent, *engine.HitHiddenEvent:
				continue
			}
			fmt.Println(evt.Message())
		}
		fmt.Println()
	}

	r := engine.Summarize(events)
	result := "undecided"
	if r.Result != engine.ResultNone {
		result = r.Result.String()
	}
	fmt.Printf("Result:  %s", result)
	if r.Gold > 0 {
		fmt.Printf(" (%d gold)", r.Gold)
	}
	fmt.Println()
	fmt.Printf("Rounds:  %d, turns %d, strikes %d, spells %d\n", r.Rounds, r.Turns, r.Strikes, r.Casts)
	fmt.Printf("Killed:  by player %d, by enemy %d\n", r.Kills[engine.TeamPlayer], r.Kills[engine.TeamEnemy])
	fmt.Printf("Wiped out: player stacks %d, enemy stacks %d\n\n", r.Losses[engine.TeamPlayer], r.Losses[engine.TeamEnemy])
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolP("verbose", "v", false, "print every recorded message")
	replayCmd.Flags().String("battle", "", "only report the battle with this id")
}
