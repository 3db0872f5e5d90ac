package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/server/models"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, users)
}

func (s *Server) countUsers(c *gin.Context) {
	n, err := s.users.Count(c.Request.Context())
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, gin.H{"count": n})
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), models.PrincipalID(c.Param("id")))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, user)
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "password is required")
		return
	}
	if err := s.users.ChangePassword(c.Request.Context(), models.PrincipalID(c.Param("id")), req.Password); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "password updated")
}

// uploadAvatar updates the caller's own profile picture.
func (s *Server) uploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		respError(c, http.StatusBadRequest, "avatar file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respError(c, http.StatusBadRequest, "unreadable file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respError(c, http.StatusBadRequest, "unreadable file")
		return
	}

	url, err := s.users.UploadAvatar(c.Request.Context(), principalFrom(c), fh.Header.Get("Content-Type"), data)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, gin.H{"avatar": url})
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), models.PrincipalID(c.Param("id"))); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "user deleted")
}
