package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsagent/internal/agent"
)

// ControlResponse is the reply shape for start and stop.
type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AgentHandler exposes the agent control surface.
type AgentHandler struct {
	Agent *agent.Agent
}

func (h *AgentHandler) Register(e *echo.Echo) {
	e.POST("/start", h.start)
	e.POST("/stop", h.stop)
	e.GET("/status", h.status)
	e.GET("/logs", h.logs)
}

func (h *AgentHandler) start(c echo.Context) error {
	ok, msg := h.Agent.Start()
	return c.JSON(http.StatusOK, ControlResponse{Success: ok, Message: msg})
}

func (h *AgentHandler) stop(c echo.Context) error {
	ok, msg := h.Agent.Stop()
	return c.JSON(http.StatusOK, ControlResponse{Success: ok, Message: msg})
}

func (h *AgentHandler) status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Agent.Status())
}

func (h *AgentHandler) logs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Agent.Logs())
}
