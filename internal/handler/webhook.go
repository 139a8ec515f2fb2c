package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alertgate/alertgate/internal/alert"
	"github.com/alertgate/alertgate/internal/model"
	"github.com/alertgate/alertgate/internal/pkg/apperrors"
	"github.com/alertgate/alertgate/internal/pkg/logger"
	"github.com/alertgate/alertgate/internal/service"
)

const maxAlertBodyBytes = 8 << 10

type WebhookHandler struct {
	parser *alert.Parser
	trader *service.Trader
}

func NewWebhookHandler(parser *alert.Parser, trader *service.Trader) *WebhookHandler {
	return &WebhookHandler{parser: parser, trader: trader}
}

// Receive handles a TradingView delivery: parse the flat text body, run the
// order pipeline, answer with the submitted order.
func (h *WebhookHandler) Receive(c *gin.Context) {
	a, ok := h.parseBody(c)
	if !ok {
		return
	}

	result, err := h.trader.HandleAlert(c.Request.Context(), a)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "result": result})
}

// DryRun parses and sizes the alert without submitting an order.
func (h *WebhookHandler) DryRun(c *gin.Context) {
	a, ok := h.parseBody(c)
	if !ok {
		return
	}

	result, err := h.trader.DryRun(c.Request.Context(), a)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "dry_run", "result": result})
}

func (h *WebhookHandler) parseBody(c *gin.Context) (a model.Alert, ok bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAlertBodyBytes))
	if err != nil {
		c.Error(apperrors.NewInvalidRequest("failed to read request body"))
		return a, false
	}

	logger.Info("webhook received", "raw", string(raw))

	a, err = h.parser.Parse(string(raw))
	if err != nil {
		c.Error(err)
		return a, false
	}
	return a, true
}
