package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nextgig/job-board/internal/database"
	"github.com/nextgig/job-board/internal/format"
	"github.com/nextgig/job-board/internal/job"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2F6FED")).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#616E7C")).
			Width(22)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3EBD93"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9AA5B1"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D64545"))
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise jobs, views and applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		employerID, _ := cmd.Flags().GetString("employer")
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer database.CloseDbConn(conn)
		jobs, err := job.NewRepository(conn).JobsByFilters(job.Filters{EmployerID: employerID})
		if err != nil {
			return err
		}
		title := "All employers"
		if employerID != "" {
			title = "Employer " + employerID
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStats(title, job.Summarise(jobs)))
		return nil
	},
}

func init() {
	statsCmd.Flags().String("employer", "", "only count jobs of this employer id")
}

func renderStats(title string, s job.EmployerStats) string {
	rows := []struct {
		label string
		value string
	}{
		{"Active jobs", fmt.Sprint(s.ActiveJobs)},
		{"Total jobs", fmt.Sprint(s.TotalJobs)},
		{"Applications", fmt.Sprint(s.TotalApplications)},
		{"Applications per job", fmt.Sprintf("%.1f", s.MeanApplications)},
		{"Views", fmt.Sprint(s.TotalViews)},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(format.FormatApplicationCount(s.TotalApplications)))
	return b.String()
}
