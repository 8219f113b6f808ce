package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/server"
	"github.com/eslsoft/vocdrill/internal/repository"
	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/internal/usecase/backup"
	"github.com/eslsoft/vocdrill/internal/usecase/drill"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Server   *server.Server
	Repo     repository.WordSetRepository
	WordSets usecase.WordSetUsecase
	Practice usecase.PracticeUsecase
	Backup   *backup.Service
}

func provideDrillConfig(cfg *config.Config) drill.Config {
	return cfg.DrillConfig()
}

func provideBackupService(repo repository.WordSetRepository) (*backup.Service, error) {
	return backup.NewService(repo)
}
