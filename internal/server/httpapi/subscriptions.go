package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listPlans(c *gin.Context) {
	plans, err := s.subscriptions.ListPlans(c.Request.Context())
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, plans)
}

func (s *Server) currentSubscription(c *gin.Context) {
	sub, err := s.subscriptions.Current(c.Request.Context(), principalFrom(c))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, sub)
}

type planRequest struct {
	PlanID int64 `json:"plan_id" binding:"required"`
}

func (s *Server) upgradeSubscription(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "plan_id is required")
		return
	}
	sub, err := s.subscriptions.Upgrade(c.Request.Context(), principalFrom(c), req.PlanID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, sub)
}

func (s *Server) downgradeSubscription(c *gin.Context) {
	sub, err := s.subscriptions.Downgrade(c.Request.Context(), principalFrom(c))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, sub)
}

func (s *Server) createPayment(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "plan_id is required")
		return
	}
	intent, err := s.subscriptions.CreatePayment(c.Request.Context(), principalFrom(c), req.PlanID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, intent)
}

type executePaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	PlanID  int64  `json:"plan_id" binding:"required"`
}

func (s *Server) executePayment(c *gin.Context) {
	var req executePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "order_id and plan_id are required")
		return
	}
	sub, err := s.subscriptions.ExecutePayment(c.Request.Context(), principalFrom(c), req.OrderID, req.PlanID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, sub)
}
