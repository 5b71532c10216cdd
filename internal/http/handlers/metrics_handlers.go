package handlers

import (
	"net/http"

	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Failure 501 {string} string "Not available in remote mode"
// @Router /api/v1/admin/metrics [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if metricsRepo == nil {
		repoError(w, r, repo.ErrReadOnly, "metrics unavailable")
		return
	}

	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		repoError(w, r, err, "failed to fetch metrics")
		return
	}
	respond(w, r, http.StatusOK, m)
}
