package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/server/models"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (s *Server) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "name, a valid email and message are required")
		return
	}
	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contacts.Submit(c.Request.Context(), contact); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, contact)
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respError(c, http.StatusBadRequest, "invalid inquiry id")
		return 0, false
	}
	return id, true
}

func (s *Server) listContacts(c *gin.Context) {
	contacts, err := s.contacts.List(c.Request.Context())
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, contacts)
}

func (s *Server) getContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := s.contacts.Get(c.Request.Context(), id)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, contact)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateContactStatus(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "status is required")
		return
	}
	if err := s.contacts.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "status updated")
}

func (s *Server) deleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	if err := s.contacts.Delete(c.Request.Context(), id); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "inquiry deleted")
}
