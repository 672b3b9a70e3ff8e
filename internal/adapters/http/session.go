package http

import (
	"net/http"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type sessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// handleCreateSession stores a valid credential in the cookie session so a
// browser can open the signal socket without putting it in the URL.
func handleCreateSession(authn orch.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, core.ErrorReply(core.CodeBadPayload, "missing token"))
			return
		}
		token := auth.StripBearer(req.Token)
		user, err := authn.Authenticate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, core.ErrorReply(core.CodeAuthentication, "invalid or expired token"))
			return
		}

		session := sessions.Default(c)
		session.Set(auth.SessionKey, token)
		if err := session.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": user.ID, "displayName": user.Username})
	}
}

func handleDeleteSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(auth.SessionKey)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
	}
	c.Status(http.StatusNoContent)
}
