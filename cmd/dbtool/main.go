package main

import (
	"encoding/json"
	"fmt"
	"loadboard-service/internal/adapters/repositories"
	"loadboard-service/internal/config"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Manage the load board's persisted app state",
		SilenceUsage: true,
	}

	root.AddCommand(initCmd(), seedCmd(), dumpCmd())
	return root
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema for the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log.Printf("Initializing %s backend...", cfg.StoreBackend)
			_, closeGW, err := repositories.OpenGateway(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			defer closeGW()

			log.Println("Schema ready.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the seed AppState (built-in samples or --path)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.SeedPath
			}

			gw, closeGW, err := repositories.OpenGateway(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeGW()

			log.Println("Seeding app state...")
			if err := repositories.SeedFromJSON(cmd.Context(), gw, path, force); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Println("Seeding complete.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing app state")
	cmd.Flags().StringVar(&path, "path", "", "seed document (defaults to SEED_PATH, then built-in samples)")
	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the stored AppState as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gw, closeGW, err := repositories.OpenGateway(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeGW()

			state, err := gw.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("dump: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
}
