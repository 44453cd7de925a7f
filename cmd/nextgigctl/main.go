package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nextgig/job-board/internal/config"
	"github.com/nextgig/job-board/internal/database"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "nextgigctl",
	Short:         "Operator commands for the NextGig job board",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "postgres connection string, defaults to DATABASE_URL or the server's DATABASE_* settings")
	viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindEnv("database_url", "DATABASE_URL")
	viper.AutomaticEnv()

	rootCmd.AddCommand(migrateCmd, seedCmd, featureCmd, unfeatureCmd, statsCmd)
}

// databaseURL prefers an explicit url and falls back to the server config.
func databaseURL() (string, error) {
	if u := viper.GetString("database_url"); u != "" {
		return u, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DatabaseURL(), nil
}

func openDB() (*sql.DB, error) {
	u, err := databaseURL()
	if err != nil {
		return nil, err
	}
	return database.GetDbConn(u)
}

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
