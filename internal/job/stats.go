package job

import "github.com/aclements/go-moremath/stats"

type EmployerStats struct {
	ActiveJobs        int     `json:"active_jobs"`
	TotalJobs         int     `json:"total_jobs"`
	TotalApplications int     `json:"total_applications"`
	TotalViews        int     `json:"total_views"`
	MeanApplications  float64 `json:"mean_applications"`
}

// Summarise computes the employer dashboard counters from the employer's jobs.
func Summarise(jobs []Job) EmployerStats {
	var s EmployerStats
	var sample stats.Sample
	for _, j := range jobs {
		if j.Status == StatusActive {
			s.ActiveJobs++
		}
		s.TotalApplications += j.ApplicationCount
		s.TotalViews += j.ViewsCount
		sample.Xs = append(sample.Xs, float64(j.ApplicationCount))
	}
	s.TotalJobs = len(jobs)
	if len(sample.Xs) > 0 {
		s.MeanApplications = sample.Mean()
	}
	return s
}
