package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Huddle/internal/adapters/rtc"
	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const userKey = "user"

// CredentialMiddleware puts the request credential, if any, on the context:
// Authorization header, token query parameter, then the cookie session.
func CredentialMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.CredentialFromRequest(c.Request)
		if err != nil {
			if t, ok := sessions.Default(c).Get(auth.SessionKey).(string); ok {
				token = t
			}
		}
		if token != "" {
			c.Set(auth.ContextKey, token)
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid credential.
func RequireAuth(authn orch.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authn.Authenticate(c.GetString(auth.ContextKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, core.ErrorReply(core.CodeAuthentication, "invalid or expired token"))
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24,
		HttpOnly: true,
		Secure:   cfg.Mode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("HuddleSession", store))
	r.Use(CredentialMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	ctrl := signal.NewSignalWSController(o, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	iceServers := rtc.ICEServers(cfg.ICEServers)
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	api.POST("/session", handleCreateSession(o.Auth))
	api.DELETE("/session", handleDeleteSession)

	api.GET("/rooms", RequireAuth(o.Auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
	})

	log.Info().Str("module", "adapters.http").Int("ice_servers", len(iceServers)).Msg("router setup")
	return r
}
