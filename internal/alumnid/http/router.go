package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/metrics"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/alumni/api/alumnid" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	jsonBodyLimit   = 64 << 10
	uploadBodyLimit = service.MaxMediaBytes + 1<<20
)

// RateLimits are the presets applied to each group of routes.
type RateLimits struct {
	Auth    httpx.RateLimitConfig
	Refresh httpx.RateLimitConfig
	Write   httpx.RateLimitConfig
	Read    httpx.RateLimitConfig
}

// DefaultRateLimits returns the httpx presets, including any
// RATELIMIT_* environment overrides.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Auth:    httpx.AuthLimit,
		Refresh: httpx.RefreshLimit,
		Write:   httpx.WriteLimit,
		Read:    httpx.ReadLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	cookies *SessionCookies

	// Limits is read by ApplyRoutes.
	Limits RateLimits

	// MediaDir is served under /media/ when set.
	MediaDir string

	AuthService      *service.AuthService
	TwoFactorService *service.TwoFactorService
	ResetService     *service.ResetService
	ProfileService   *service.ProfileService
	PostService      *service.PostService
	ForumService     *service.ForumService
	SearchService    *service.SearchService
	MessageService   *service.MessageService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	cookies *SessionCookies,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPosts()
	r.registerCommunity()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Alumni Development Backend API
//	@version		0.1.0
//	@description	Backend for the alumni network client. Access tokens are short lived EdDSA JWTs sent as bearer tokens;
//	@description	the session lives in the alumni_session cookie and is exchanged for a new access token at /auth/refresh.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/alumni
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern, counted in the metrics by its path.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}
	r.Mux.Handle(pattern, metrics.Instrument(route, httpx.Chain(h, mws...)))
}

// authn verifies the bearer token and that its session is still active.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, func(req *http.Request, sessionID string) bool {
		return r.AuthService.SessionActive(req.Context(), sessionID)
	})
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:      r.AuthService,
		TwoFactorService: r.TwoFactorService,
		ResetService:     r.ResetService,
		Cookies:          r.cookies,
		Verifier:         r.verifier,
	}
	body := httpx.MaxBodyBytes(jsonBodyLimit)

	// Credential checks - strict, per IP and account
	r.handle("POST /auth/login", http.HandlerFunc(h.HandleLogin),
		body, httpx.RateLimitByIPAndJSONField(r.Limits.Auth, "email"))
	r.handle("POST /auth/2fa/verify", http.HandlerFunc(h.HandleVerifyTwoFactor),
		body, httpx.RateLimitByIPAndJSONField(r.Limits.Auth, "challengeToken"))
	r.handle("POST /auth/forgot-password", http.HandlerFunc(h.HandleForgotPassword),
		body, httpx.RateLimitByIPAndJSONField(r.Limits.Auth, "email"))
	r.handle("POST /auth/verify-code", http.HandlerFunc(h.HandleVerifyCode),
		body, httpx.RateLimitByIPAndJSONField(r.Limits.Auth, "email"))
	r.handle("POST /auth/reset-password", http.HandlerFunc(h.HandleResetPassword),
		body, httpx.RateLimitByIP(r.Limits.Auth))
	r.handle("POST /auth/register", http.HandlerFunc(h.HandleRegister),
		body, httpx.RateLimitByIP(r.Limits.Auth))

	// Refresh and logout are cookie driven, no bearer required
	r.handle("POST /auth/refresh", http.HandlerFunc(h.HandleRefresh),
		body, httpx.RateLimitByIP(r.Limits.Refresh))
	r.handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout),
		body, httpx.RateLimitByIP(r.Limits.Refresh))

	r.handle("GET /auth/me", http.HandlerFunc(h.HandleMe),
		r.authn(), httpx.RateLimitByUser(r.Limits.Read))
	r.handle("POST /auth/2fa/enroll", http.HandlerFunc(h.HandleEnrollTwoFactor),
		body, r.authn(), httpx.RateLimitByUser(r.Limits.Write))
	r.handle("POST /auth/2fa/confirm", http.HandlerFunc(h.HandleConfirmTwoFactor),
		body, r.authn(), httpx.RateLimitByUser(r.Limits.Auth))
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		ProfileService: r.ProfileService,
		PostService:    r.PostService,
		Cookies:        r.cookies,
	}
	body := httpx.MaxBodyBytes(jsonBodyLimit)
	upload := httpx.MaxBodyBytes(uploadBodyLimit)
	read := httpx.RateLimitByUser(r.Limits.Read)
	write := httpx.RateLimitByUser(r.Limits.Write)

	// /users/me/* is more specific than /users/{id}, so the mux prefers it.
	r.handle("PUT /users/me", http.HandlerFunc(h.HandleUpdateProfile), body, r.authn(), write)
	r.handle("DELETE /users/me", http.HandlerFunc(h.HandleDeleteAccount), r.authn(), write)
	r.handle("POST /users/me/photo", http.HandlerFunc(h.HandleUploadPhoto), upload, r.authn(), write)
	r.handle("POST /users/me/banner", http.HandlerFunc(h.HandleUploadBanner), upload, r.authn(), write)
	r.handle("GET /users/me/posts", http.HandlerFunc(h.HandleMyPosts), r.authn(), read)

	r.handle("GET /users/me/education", http.HandlerFunc(h.HandleListEducation), r.authn(), read)
	r.handle("POST /users/me/education", http.HandlerFunc(h.HandleAddEducation), body, r.authn(), write)
	r.handle("PUT /users/me/education/{id}", http.HandlerFunc(h.HandleUpdateEducation), body, r.authn(), write)
	r.handle("DELETE /users/me/education/{id}", http.HandlerFunc(h.HandleDeleteEducation), r.authn(), write)

	r.handle("GET /users/me/licenses", http.HandlerFunc(h.HandleListLicenses), r.authn(), read)
	r.handle("POST /users/me/licenses", http.HandlerFunc(h.HandleAddLicense), body, r.authn(), write)
	r.handle("PUT /users/me/licenses/{id}", http.HandlerFunc(h.HandleUpdateLicense), body, r.authn(), write)
	r.handle("DELETE /users/me/licenses/{id}", http.HandlerFunc(h.HandleDeleteLicense), r.authn(), write)

	r.handle("GET /users/{id}", http.HandlerFunc(h.HandleGetUser), r.authn(), read)
	r.handle("GET /users/{id}/posts", http.HandlerFunc(h.HandleUserPosts), r.authn(), read)
}

func (r *Router) registerPosts() {
	h := &PostHandler{PostService: r.PostService}
	body := httpx.MaxBodyBytes(jsonBodyLimit)
	read := httpx.RateLimitByUser(r.Limits.Read)
	write := httpx.RateLimitByUser(r.Limits.Write)

	r.handle("GET /posts", http.HandlerFunc(h.HandleList), r.authn(), read)
	r.handle("POST /posts", http.HandlerFunc(h.HandleCreate), body, r.authn(), write)
	r.handle("GET /posts/{id}", http.HandlerFunc(h.HandleGet), r.authn(), read)
	r.handle("PUT /posts/{id}", http.HandlerFunc(h.HandleUpdate), body, r.authn(), write)
	r.handle("DELETE /posts/{id}", http.HandlerFunc(h.HandleDelete), r.authn(), write)

	r.handle("GET /posts/{id}/comments", http.HandlerFunc(h.HandleListComments), r.authn(), read)
	r.handle("POST /posts/{id}/comments", http.HandlerFunc(h.HandleAddComment), body, r.authn(), write)
	r.handle("PUT /posts/{id}/comments/{cid}", http.HandlerFunc(h.HandleUpdateComment), body, r.authn(), write)
	r.handle("DELETE /posts/{id}/comments/{cid}", http.HandlerFunc(h.HandleDeleteComment), r.authn(), write)
}

func (r *Router) registerCommunity() {
	h := &CommunityHandler{
		ForumService:   r.ForumService,
		SearchService:  r.SearchService,
		MessageService: r.MessageService,
	}
	read := httpx.RateLimitByUser(r.Limits.Read)

	r.handle("GET /forum/topics", http.HandlerFunc(h.HandleListTopics), r.authn(), read)
	r.handle("GET /forum/topics/{id}", http.HandlerFunc(h.HandleGetTopic), r.authn(), read)
	r.handle("GET /search", http.HandlerFunc(h.HandleSearch), r.authn(), read)
	r.handle("GET /messages", http.HandlerFunc(h.HandleListMessages), r.authn(), read)
	r.handle("POST /messages", http.HandlerFunc(h.HandleSendMessage),
		httpx.MaxBodyBytes(jsonBodyLimit), r.authn(), httpx.RateLimitByUser(r.Limits.Write))
}

func (r *Router) registerSystem() {
	// Probes and discovery share the read preset, keyed by IP
	public := r.Limits.Read

	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(public))
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys), httpx.RateLimitByIP(public))
	r.handle("GET /.well-known/jwks.json", JWKSHandler(r.keys), httpx.RateLimitByIP(public))

	r.Mux.Handle("GET /metrics", promhttp.Handler())

	if r.MediaDir != "" {
		r.Mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(r.MediaDir))))
	}
}
