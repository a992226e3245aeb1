package http

import (
	"log/slog"
	"net/http"
	"time"

	"salesauth/internal/domain"
	"salesauth/internal/service"
	"salesauth/internal/store"
	"salesauth/pkg/httpx"
	"salesauth/pkg/jwtx"
	"salesauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.HS256Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	ProductService *service.ProductService
	RolesService   *service.RolesService
}

func NewRouter(
	verifier *jwtx.HS256Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProducts()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// All three are unauthenticated credential endpoints, so they take the
	// strict per-IP limit to slow down brute forcing.
	r.Mux.Handle("POST /api/Auth/Register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/Auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/Auth/RefreshToken",
		httpx.Chain(http.HandlerFunc(h.HandleRefreshToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductHandler{ProductService: r.ProductService}

	securedAdd := httpx.Chain(http.HandlerFunc(h.HandleAdd),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyRole(domain.RoleSalesManager),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyRole(domain.RoleSalesManager, domain.RoleSalesAdvisor),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /api/Product/AddNewProduct", securedAdd)
	r.Mux.Handle("GET /api/Product/GetAllProducts", securedList)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
