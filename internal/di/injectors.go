//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"wallshift/internal"
	"wallshift/internal/controllers"
	"wallshift/internal/platform"
	"wallshift/internal/providers"
	"wallshift/internal/rotation"
	"wallshift/internal/sources"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
)

func InitApp(flags *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewSilentLogProvider,
		providers.NewHTTPClientProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		statefile.NewZstdCompressor,
		statefile.NewStore,
		sources.NewClient,
		sources.NewRegistry,
		platform.NewBackgroundController,
		rotation.NewDirPool,
		rotation.NewRateLimiter,
		rotation.NewLedger,
		rotation.NewSequencer,
		rotation.NewEngine,
		rotation.NewScheduler,
		controllers.NewHealthController,
		internal.NewApp,
	)

	return nil, nil
}
