package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/app"
	"github.com/riskibarqy/scout-core/internal/domain/identity"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
	"github.com/riskibarqy/scout-core/internal/usecase"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func (c *cli) recomputeCommand() *cobra.Command {
	var (
		competitionID string
		country       string
		from          string
		to            string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute stat windows, player ratings and competition strength",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if competitionID != "" && country != "" {
				return fmt.Errorf("--competition and --country are mutually exclusive")
			}
			input := usecase.RecomputeInput{
				CompetitionID: competitionID,
				Country:       country,
				DryRun:        dryRun,
			}
			var err error
			if input.From, err = parseDateFlag("from", from); err != nil {
				return err
			}
			if input.To, err = parseDateFlag("to", to); err != nil {
				return err
			}

			rt, err := app.NewRuntime(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			result, err := rt.Services.Rating.RecomputeRatings(cmd.Context(), input)
			if err != nil {
				return err
			}
			return c.printJSON(result)
		},
	}
	cmd.Flags().StringVar(&competitionID, "competition", "", "limit the run to one competition id")
	cmd.Flags().StringVar(&country, "country", "", "limit the run to competitions of one country code")
	cmd.Flags().StringVar(&from, "from", "", "window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "window end date (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute without writing")
	return cmd
}

func (c *cli) resolveCommand() *cobra.Command {
	var (
		rawProvider string
		record      identity.ProviderRecord
		group       string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one provider player record to a canonical player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := provider.Parse(rawProvider)
			if err != nil {
				return err
			}
			record.Provider = p
			if strings.TrimSpace(group) != "" {
				parsed, ok := player.ParsePositionGroup(group)
				if !ok {
					return fmt.Errorf("unknown position group %q", group)
				}
				record.PositionGroup = parsed
			}

			rt, err := app.NewRuntime(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			result, err := rt.Services.Identity.ResolveAndLink(cmd.Context(), record)
			if err != nil {
				return err
			}
			return c.printJSON(result)
		},
	}
	cmd.Flags().StringVar(&rawProvider, "provider", "", "provider name (api_football, fotmob, sofascore)")
	cmd.Flags().StringVar(&record.ProviderPlayerID, "id", "", "provider player id")
	cmd.Flags().StringVar(&record.Name, "name", "", "player name as the provider spells it")
	cmd.Flags().StringVar(&record.BirthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&record.Nationality, "nationality", "", "nationality")
	cmd.Flags().StringVar(&record.Position, "position", "", "provider position label")
	cmd.Flags().StringVar(&group, "position-group", "", "GK, DEF, MID or ATT")
	cmd.Flags().StringVar(&record.TeamID, "team-id", "", "canonical team id")
	cmd.Flags().StringVar(&record.TeamName, "team-name", "", "team name when the team id is unknown")
	cmd.Flags().StringVar(&record.CompetitionID, "competition", "", "competition id")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func parseDateFlag(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, raw)
	}
	return parsed.UTC(), nil
}
