package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ChartFeed/internal/chart"
	"ChartFeed/internal/currency"
	"ChartFeed/internal/model"
	"ChartFeed/internal/recorder"
)

// ChartComputer builds chart data for a pair and period.
type ChartComputer interface {
	Compute(ctx context.Context, from, to model.Currency, period model.PeriodType) (*chart.Result, error)
}

// Server wires the HTTP endpoints around the chart service.
type Server struct {
	Router     *gin.Engine
	Charts     ChartComputer
	Currencies *currency.Registry
	Recorder   recorder.Recorder
}

// NewServer builds the router. rec may be nil when snapshots are not persisted.
func NewServer(charts ChartComputer, reg *currency.Registry, rec recorder.Recorder) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware(20, 50))

	s := &Server{
		Router:     r,
		Charts:     charts,
		Currencies: reg,
		Recorder:   rec,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)

	api := s.Router.Group("/api")
	{
		api.GET("/currencies", s.listCurrencies)
		api.GET("/chart/:from/:to/:period", s.getChart)
		api.GET("/chart/:from/:to/:period/latest", s.getLatestChart)
	}
}

// HTTPServer returns an http.Server serving the router on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
