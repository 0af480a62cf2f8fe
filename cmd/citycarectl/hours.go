package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

type hoursOutput struct {
	Text      string                  `json:"text"`
	Evaluated time.Time               `json:"evaluatedAt"`
	Status    entities.BusinessStatus `json:"status"`
}

func hoursCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours <hours text>",
		Short: "Resolve the business status of an hours string",
		Example: `  citycarectl hours "11:00~21:00 (브레이크타임 15:00~17:00)" --at 16:00
  citycarectl hours "22:00~02:00" --at 01:30 --weekday 6`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			loc := cfg.App.Location()

			now, err := evaluationTime(time.Now().In(loc), v.GetString("hours.at"), v.GetInt("hours.weekday"))
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			status := services.NewBusinessHoursService(loc, nil).ResolveAt(&text, now)
			return printJSON(cmd, hoursOutput{Text: text, Evaluated: now, Status: status})
		},
	}

	cmd.Flags().String("at", "", "wall-clock time HH:MM (default now)")
	cmd.Flags().Int("weekday", -1, "weekday 0=Sunday..6=Saturday (default today)")
	_ = v.BindPFlag("hours.at", cmd.Flags().Lookup("at"))
	_ = v.BindPFlag("hours.weekday", cmd.Flags().Lookup("weekday"))

	return cmd
}

// evaluationTime moves now forward to the requested weekday (0..6, negative
// keeps today) and replaces the clock time when at is given.
func evaluationTime(now time.Time, at string, weekday int) (time.Time, error) {
	if weekday > 6 {
		return time.Time{}, fmt.Errorf("weekday must be between 0 and 6")
	}
	if weekday >= 0 {
		delta := (weekday - int(now.Weekday()) + 7) % 7
		now = now.AddDate(0, 0, delta)
	}
	if at == "" {
		return now, nil
	}

	clock, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q, expected HH:MM", at)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}
