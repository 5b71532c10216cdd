package handlers

import (
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"go.uber.org/zap"
)

var (
	catalogRepo repo.CatalogRepository
	metricsRepo repo.MetricsRepository
	userRepo    repo.UserRepository

	logger = zap.NewNop()
)

func SetCatalogRepo(r repo.CatalogRepository) {
	catalogRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
