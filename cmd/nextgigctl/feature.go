package main

import (
	"fmt"

	"github.com/nextgig/job-board/internal/database"
	"github.com/nextgig/job-board/internal/job"
	"github.com/spf13/cobra"
)

var featureCmd = &cobra.Command{
	Use:   "feature <job-id>",
	Short: "Show a job in the featured section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFeatured(cmd, args[0], true)
	},
}

var unfeatureCmd = &cobra.Command{
	Use:   "unfeature <job-id>",
	Short: "Remove a job from the featured section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFeatured(cmd, args[0], false)
	},
}

func setFeatured(cmd *cobra.Command, id string, featured bool) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDbConn(conn)
	err = job.NewRepository(conn).SetFeatured(id, featured)
	if err == job.ErrNotFound {
		return fmt.Errorf("no job with id %s", id)
	}
	if err != nil {
		return err
	}
	state := "featured"
	if !featured {
		state = "no longer featured"
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("job %s is %s", id, state)))
	return nil
}
