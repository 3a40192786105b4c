// Package module wires the conversion service into the API using modkit
package module

import (
	"net/http"
	"strings"

	modkit "csv2xml/internal/modkit"
	"csv2xml/internal/modkit/httpkit"
	"csv2xml/internal/modkit/swaggerkit"
	str "csv2xml/internal/platform/strings"
	converthttp "csv2xml/internal/services/convert/http"
	convertsvc "csv2xml/internal/services/convert/service"
)

// DefaultMaxBodyBytes caps request bodies when CORE_API_MAX_BODY_BYTES is unset
const DefaultMaxBodyBytes int64 = 32 << 20

func init() {
	swaggerkit.Register(documentUnprocessable)
}

// Ports is what other modules and binaries may use from convert
type Ports struct {
	Converter convertsvc.Service
}

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the convert module; the body limit comes from
// MAX_BODY_BYTES on deps.Cfg unless WithBodyLimit overrides it
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	limit := deps.Cfg.MayInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("convert"),
		modkit.WithPrefix("/convert"),
		modkit.WithBodyLimit(limit),
	}, opts...)...)

	svc := convertsvc.New()
	m := &Module{
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Middlewares(),
		ports:     Ports{Converter: svc},
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		converthttp.Register(r, converthttp.Deps{Service: svc, MaxBodyBytes: b.BodyLimit})
		external(r)
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		m.register(m.subrouter(rr))
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }

// documentUnprocessable adds the 422 envelope to the convert operations
func documentUnprocessable(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := swaggerkit.ErrorExample("Unprocessable Entity", http.StatusUnprocessableEntity, 8, "csvsource: input has no header row")
	for path, node := range paths {
		if !strings.HasPrefix(path, "/convert/") {
			continue
		}
		ops, ok := node.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range ops {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses["422"]; !exists {
				responses["422"] = resp
			}
		}
	}
}
