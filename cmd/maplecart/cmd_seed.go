package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/database/seeders"
	"github.com/shashiranjanraj/maplecart/pkg/database"
)

// maplecart seed — run all registered seeders.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(cmd.Context()); err != nil {
			return err
		}
		defer database.Close(cmd.Context())

		fmt.Println("Seeding database…")
		return seeders.RunAll(cmd.Context(), database.DB())
	},
}
