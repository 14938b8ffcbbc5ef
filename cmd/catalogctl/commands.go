package main

import (
	"fmt"
	"time"

	"realestate-catalog/internal/auth"
	"realestate-catalog/internal/utils"
	"realestate-catalog/pkg/database"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func IndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the catalog indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := database.EnsureIndexes(cmd.Context(), e.db.Database()); err != nil {
				return utils.WrapError(err, "failed to create indexes")
			}
			for collection, models := range database.IndexPlan() {
				fmt.Printf("%-16s %d index(es)\n", collection, len(models))
			}
			success.Println("indexes are up to date")
			return nil
		},
	}
}

func RepairMainImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-main-images",
		Short: "Keep one main image on properties that have several",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			repaired, err := e.images.RepairMainImages(cmd.Context())
			if err != nil {
				return utils.WrapError(err, "repair stopped after %d properties", repaired)
			}
			if repaired == 0 {
				success.Println("every property has at most one main image")
				return nil
			}
			warning.Printf("repaired %d properties\n", repaired)
			return nil
		},
	}
}

func OrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List images, places and traces whose property no longer exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			report, err := e.maintenance.FindOrphans(cmd.Context())
			if err != nil {
				return err
			}
			if report.Total() == 0 {
				success.Println("no orphaned records")
				return nil
			}
			printOrphans("images", report.Images)
			printOrphans("places", report.Places)
			printOrphans("traces", report.Traces)
			warning.Printf("%d orphaned property reference(s)\n", report.Total())
			return nil
		},
	}
}

func printOrphans(kind string, ids []primitive.ObjectID) {
	for _, id := range ids {
		fmt.Printf("%-8s %s\n", kind, id.Hex())
	}
}

func NormalizeAddressesCmd() *cobra.Command {
	var backfill bool
	cmd := &cobra.Command{
		Use:   "normalize-addresses",
		Short: "Collapse whitespace in property addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			report, err := e.maintenance.NormalizeAddresses(cmd.Context(), backfill)
			if err != nil {
				return err
			}
			fmt.Printf("scanned %d, normalized %d, backfilled %d\n", report.Scanned, report.Normalized, report.Backfilled)
			if report.Failed > 0 {
				return fmt.Errorf("%d properties could not be updated", report.Failed)
			}
			success.Println("done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&backfill, "backfill-places", false, "create missing City/State/Country places from the address")
	return cmd
}

func TokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with the configured JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			details, err := auth.GenerateJWT(subject, role, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Println(details.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().StringVar(&role, "role", auth.RoleEditor, "reader or editor")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
