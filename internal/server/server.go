package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsagent/config"
	"newsagent/internal/agent"
	"newsagent/internal/classifier"
	"newsagent/internal/notifier"
	"newsagent/internal/runlog"
	"newsagent/internal/timeline"
	"newsagent/provider/openai"
)

// Run wires the pipeline together and serves the control surface until
// the listener fails.
func Run(cfg *config.Config) error {
	rl := runlog.New(cfg.RunLog.Capacity)
	state := agent.NewRunState()

	fetcher := timeline.New(cfg.Timeline, rl)
	provider := openai.New(cfg.LLM)
	cls := classifier.New(cfg.Classify, provider, rl)
	mailer := notifier.NewSMTPMailer(cfg.SMTP)
	svc := notifier.NewService(mailer, cfg.SMTP.Recipient, rl)

	ag := agent.New(fetcher, cls, svc, state, rl)

	sched, err := agent.NewScheduler(cfg.Schedule.Cron, ag)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &AgentHandler{Agent: ag}
	h.Register(e)

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":3001"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
