package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/directory"
	"github.com/Hash-621/TEAM202507-01-Final/internal/adapters/providers/geolocation"
	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
)

func recommendCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <symptom text>",
		Short: "Load the hospital listing and recommend hospitals for a symptom",
		Example: `  citycarectl recommend 사랑니가 아파요
  CITYCARE_DIRECTORY_BASE_URL=http://localhost:8081/api citycarectl recommend 무릎 통증 --token "Bearer ..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			geocoder, err := geolocation.NewProvider(&cfg.Geolocation)
			if err != nil {
				return err
			}

			svc := services.NewRecommendationService(
				directory.NewHTTPClient(cfg.Directory.BaseURL, cfg.Directory.Timeout()),
				services.NewGeocodeOrchestrator(geocoder, cfg.Geolocation.MaxConcurrency, nil),
				services.NewUrgencyClassifier(nil),
				services.NewFacilityRanker(cfg.Recommend.TopN),
				services.NewBusinessHoursService(cfg.App.Location(), nil),
				nil,
				nil,
			)

			ctx := providers.WithCredentials(cmd.Context(), v.GetString("recommend.token"))
			summary, err := svc.LoadSession(ctx, entities.DomainHospital)
			if err != nil {
				return err
			}
			log.Info().Int("total", summary.Total).Int("located", summary.Located).Msg("listing loaded")

			rec, err := svc.Recommend(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("symptom text is empty")
			}
			return printJSON(cmd, rec)
		},
	}

	cmd.Flags().String("token", "", "Authorization header forwarded to the directory")
	_ = v.BindPFlag("recommend.token", cmd.Flags().Lookup("token"))

	return cmd
}
