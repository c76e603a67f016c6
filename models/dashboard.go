package models

type DashboardStats struct {
	FacultiesTotal      int `json:"faculties_total"`
	SportsTotal         int `json:"sports_total"`
	ResultsTotal        int `json:"results_total"`
	OverallResultsTotal int `json:"overall_results_total"`
	MediaTotal          int `json:"media_total"`
	PointsAwarded       int `json:"points_awarded"`
}
