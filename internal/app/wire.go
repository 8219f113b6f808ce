//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/adapter/connectrpc"
	"github.com/eslsoft/vocdrill/internal/adapter/repository"
	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
	"github.com/eslsoft/vocdrill/internal/infrastructure/server"
	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1/vocdrillv1connect"
)

var configSet = wire.NewSet(
	config.Load,
	provideDrillConfig,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	repository.NewWordSetRepository,
)

var usecaseSet = wire.NewSet(
	usecase.NewWordSetUsecase,
	usecase.NewPracticeUsecase,
	provideBackupService,
)

var serviceSet = wire.NewSet(
	connectrpc.NewWordSetServiceServer,
	connectrpc.NewPracticeServiceServer,
	wire.Bind(new(vocdrillv1connect.WordSetServiceHandler), new(*connectrpc.WordSetServiceServer)),
	wire.Bind(new(vocdrillv1connect.PracticeServiceHandler), new(*connectrpc.PracticeServiceServer)),
)

var serverSet = wire.NewSet(
	server.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
