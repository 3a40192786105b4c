// Package api provides the HTTP API for the application
package api

import (
	"time"

	"csv2xml/internal/platform/config"
	phttp "csv2xml/internal/platform/net/http"

	"csv2xml/internal/modkit"
	"csv2xml/internal/modkit/httpkit"
	"csv2xml/internal/modkit/module"
	"csv2xml/internal/modkit/swaggerkit"

	convertmod "csv2xml/internal/services/convert/module"

	metamod "csv2xml/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Started        time.Time
	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted exposes what the binaries need after mounting
type Mounted struct {
	Modules []module.Module
	Convert convertmod.Ports
}

// Mount mounts the API onto the given router
func Mount(r phttp.Router, opt Options) Mounted {
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Started: opt.Started,
	}

	conv := convertmod.New(deps)
	mods := []module.Module{
		metamod.New(deps),
		conv,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	return Mounted{
		Modules: mods,
		Convert: module.MustPortsOf[convertmod.Ports](conv),
	}
}
