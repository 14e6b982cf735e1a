package app

import (
	"github.com/storeforge/appcore/config"
	"github.com/storeforge/appcore/internal/analytics"
	"github.com/storeforge/appcore/internal/appconfig"
	"github.com/storeforge/appcore/internal/assets"
	"github.com/storeforge/appcore/internal/circuitbreaker"
	"github.com/storeforge/appcore/internal/initializer"
	"github.com/storeforge/appcore/internal/injector"
	"github.com/storeforge/appcore/internal/notification"
	"github.com/storeforge/appcore/internal/permission"
	"github.com/storeforge/appcore/internal/push"
)

// RuntimeComponents holds the configuration runtime: the store and every
// manager driven by the boot sequence.
type RuntimeComponents struct {
	Store         *appconfig.Store
	Permissions   *permission.Manager
	Assets        *assets.Loader
	AssetsBreaker *circuitbreaker.CircuitBreaker
	Injector      *injector.Injector
	Analytics     *analytics.Manager
	Push          *push.Manager
	Notifications *notification.Service
	Initializer   *initializer.Initializer
}

// InitializeRuntime wires the configuration store and its managers. The
// permission requester is a static grant-all bridge; a mobile shell replaces
// it with its platform implementation.
func InitializeRuntime(cfg config.Config) *RuntimeComponents {
	store := appconfig.NewStore()

	requester := permission.NewStaticRequester(permission.Capabilities...)
	permissions := permission.NewManager(requester)

	assetsBreaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Assets.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.Assets.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.Assets.CircuitBreakerTimeout,
		Name:             "asset-downloads",
	})
	downloader := assets.NewHTTPDownloader(cfg.Assets.DownloadTimeout, assetsBreaker)
	loader := assets.NewLoader(cfg.Assets.CacheDir, downloader)

	inj := injector.New(store, permissions, loader)

	analyticsMgr := analytics.NewManager(analytics.Settings{
		GA4APISecret: cfg.Analytics.GA4APISecret,
		ClientID:     cfg.Analytics.ClientID,
	})
	pushMgr := push.NewManager(cfg.Platform.OS)
	notifications := notification.NewService()

	init := initializer.New(store, inj, loader, permissions, analyticsMgr, pushMgr, notifications)

	return &RuntimeComponents{
		Store:         store,
		Permissions:   permissions,
		Assets:        loader,
		AssetsBreaker: assetsBreaker,
		Injector:      inj,
		Analytics:     analyticsMgr,
		Push:          pushMgr,
		Notifications: notifications,
		Initializer:   init,
	}
}
