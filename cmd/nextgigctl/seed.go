package main

import (
	"fmt"

	"github.com/nextgig/job-board/internal/database"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/user"
	"github.com/nextgig/job-board/internal/validator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo employer with a few sample jobs",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("email", "demo-employer@nextgig.local", "email of the demo employer")
	seedCmd.Flags().String("password", "", "password of the demo employer")
	seedCmd.MarkFlagRequired("password")
}

func int64Ptr(n int64) *int64 { return &n }

var seedJobs = []job.JobRq{
	{
		Title:           "Frontend Engineer",
		CompanyName:     "NextWave Labs",
		Description:     "Build modern React apps with attention to UX and performance.",
		Category:        "Engineering",
		Location:        "Bengaluru",
		JobType:         "Full-time",
		ExperienceLevel: "Mid",
		SalaryMin:       int64Ptr(800000),
		SalaryMax:       int64Ptr(1200000),
		SalaryCurrency:  "INR",
	},
	{
		Title:           "Product Designer",
		CompanyName:     "Aurora Systems",
		Description:     "Design mobile-first experiences and collaborate with engineering.",
		Category:        "Design",
		Location:        "Remote",
		JobType:         "Contract",
		ExperienceLevel: "Senior",
		SalaryMin:       int64Ptr(75000),
		SalaryMax:       int64Ptr(95000),
		SalaryCurrency:  "USD",
		IsRemote:        true,
	},
	{
		Title:           "Backend Developer (Node.js)",
		CompanyName:     "StellarOps",
		Description:     "Work on scalable APIs, microservices and integrations.",
		Category:        "Engineering",
		Location:        "Mumbai",
		JobType:         "Full-time",
		ExperienceLevel: "Senior",
		SalaryMin:       int64Ptr(1200000),
		SalaryMax:       int64Ptr(1800000),
		SalaryCurrency:  "INR",
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	conn, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDbConn(conn)
	userRepo := user.NewRepository(conn)
	jobRepo := job.NewRepository(conn)

	employerID, err := seedEmployer(userRepo, email, password)
	if err != nil {
		return err
	}
	existing, err := jobRepo.JobsForEmployer(employerID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("%s already has %d jobs, nothing to do", email, len(existing))))
		return nil
	}
	v := validator.New()
	for _, rq := range seedJobs {
		rq.Normalise()
		if err := v.Validate(&rq); err != nil {
			return errors.Wrapf(err, "seed job %q", rq.Title)
		}
		j, err := jobRepo.SaveJob(employerID, rq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", okStyle.Render("created"), j.ID, j.Title)
	}
	return nil
}

func seedEmployer(userRepo *user.Repository, email, password string) (string, error) {
	p, err := userRepo.SignUp(user.SignUpRq{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		FullName:        "Demo Employer",
		Role:            profile.RoleEmployer,
		CompanyName:     "NextGig Demo",
	})
	if err == user.ErrEmailTaken {
		u, err := userRepo.UserByEmail(email)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
