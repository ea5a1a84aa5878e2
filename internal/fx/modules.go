package fx

import (
	"go.uber.org/fx"

	"github.com/sp3dr4/bizsearch/config"
)

// ConfigModule provides configuration-related dependencies
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// InfrastructureModule provides infrastructure-related dependencies
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideRepository),
	fx.Provide(ProvideRedisClient),
	fx.Provide(ProvideCache),
	fx.Provide(ProvidePlacesClient),
	fx.Provide(ProvideGeocoder),
	fx.Provide(ProvidePlaces),
	fx.Provide(ProvidePhotoURLBuilder),
	fx.Provide(ProvideTokenManager),
)

// ApplicationModule provides application service dependencies
var ApplicationModule = fx.Module("application",
	fx.Provide(ProvideSearchOptions),
	fx.Provide(ProvideHistoryService),
	fx.Provide(ProvideAuthService),
	fx.Provide(ProvideSearchService),
)

// MetricsModule provides metrics-related dependencies
var MetricsModule = fx.Module("metrics",
	fx.Provide(ProvideMetricsRegistry),
)

// CoreLifecycleModule provides core lifecycle management (shared by all entrypoints)
var CoreLifecycleModule = fx.Module("core-lifecycle",
	fx.Invoke(RegisterRepositoryHooks),
	fx.Invoke(RegisterCacheHooks),
	fx.Invoke(RegisterSearchHooks),
)

// CoreModules combines the core modules shared by all entrypoints
var CoreModules = fx.Options(
	ConfigModule,
	InfrastructureModule,
	ApplicationModule,
	MetricsModule,
	CoreLifecycleModule,
)
