package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/config"
	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "repair-desk",
		Short:        "Repair desk API: orders, directories, settings and the shop demo",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newQueryCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables and columns before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	log.Println("Starting Repair Desk API server...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsTest():
		gin.SetMode(gin.TestMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		return err
	}
	db := config.GetDB()

	if migrate || cfg.IsDevelopment() {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Println("Database migration completed successfully")
	}

	var images services.ImageService
	if cfg.S3Enabled() {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return err
		}
		images = services.NewS3ImageService(s3Service)
		log.Printf("Serving product images from bucket %s", cfg.AWSS3Bucket)
	}
	shop := services.NewShopStore(services.DefaultCatalog(), images)

	router := setupRouter(cfg, db, shop)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	return router.Run(addr)
}

func newQueryCommand() *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run one SQL statement through the raw query executor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gjson.Valid(params) {
				return fmt.Errorf("--params must be a JSON array, got %q", params)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.ConnectDatabase(cfg); err != nil {
				return err
			}

			result, err := services.NewQueryService(config.GetDB()).
				Execute(cmd.Context(), args[0], services.ParseParams(gjson.Parse(params)))
			if err != nil {
				color.New(color.FgRed).Fprintf(os.Stderr, "query failed: %v\n", err)
				return err
			}
			return printQueryResult(result)
		},
	}
	cmd.Flags().StringVarP(&params, "params", "p", "[]", "positional parameters as a JSON array")
	return cmd
}

func printQueryResult(result *services.QueryResult) error {
	out, err := json.MarshalIndent(result.Rows, "", "  ")
	if err != nil {
		return err
	}
	if len(result.Rows) > 0 {
		fmt.Println(strings.TrimSpace(string(out)))
	}
	color.New(color.FgGreen, color.Bold).Printf("%d row(s)\n", result.RowCount)
	return nil
}
