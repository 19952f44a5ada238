//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"workd/internal"
	"workd/internal/controllers"
	"workd/internal/providers"
	"workd/internal/services"
	"workd/internal/structures"
	"workd/internal/works"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		services.NewRateLimiter,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		works.NewStore,
		works.NewService,
		works.NewScheduler,
		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
