package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/suderio/warband/internal/data"
)

var unitsCmd = &cobra.Command{
	Use:   "units [id...]",
	Short: "List the species of the unit catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		templates := cat.All()
		if len(args) > 0 {
			templates = templates[:0:0]
			for _, id := range args {
				t, ok := cat.Get(id)
				if !ok {
					return fmt.Errorf("unknown species %q (known: %s)", id, strings.Join(cat.Names(), ", "))
				}
				templates = append(templates, t)
			}
		}

		fmt.Println(unitTable(templates))
		return nil
	},
}

func unitTable(templates []*data.UnitTemplate) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("ID", "NAME", "HP", "SKILL", "MOVES", "MELEE", "RANGED", "AMMO", "MORALE", "COST", "ABILITIES")

	for _, u := range templates {
		ranged := u.Ranged.String()
		if u.RangedFixed > 0 {
			ranged = fmt.Sprintf("=%d", u.RangedFixed)
		}
		t.Row(
			u.ID,
			u.Name,
			fmt.Sprint(u.HP),
			fmt.Sprint(u.SkillLevel),
			fmt.Sprint(u.InitialMoves),
			u.Melee.String(),
			ranged,
			fmt.Sprint(u.InitialAmmo),
			u.MoraleGroup.String(),
			fmt.Sprint(u.WeeklyCost),
			strings.Join(u.Abilities.Names(), ", "),
		)
	}
	return t.String()
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}
