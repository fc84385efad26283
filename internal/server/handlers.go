package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/currency"
	"ChartFeed/internal/model"
	"ChartFeed/internal/recorder"
)

type chartResponse struct {
	Pair     string              `json:"pair"`
	Period   model.PeriodType    `json:"period"`
	Provider string              `json:"provider"`
	Columns  model.ChartData     `json:"columns"`
	Summary  *calculator.Summary `json:"summary,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, s.Currencies.All())
}

func (s *Server) getChart(c *gin.Context) {
	pair, err := s.Currencies.Pair(c.Param("from"), c.Param("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	period := model.PeriodType(c.Param("period"))

	res, err := s.Charts.Compute(c.Request.Context(), pair.From, pair.To, period)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := s.Recorder.RecordChart(c.Request.Context(), &recorder.ChartSnapshot{
		Pair:     pair.String(),
		Period:   period,
		Provider: res.Provider,
		Columns:  res.Columns,
		Summary:  res.Summary,
	}); err != nil {
		log.Printf("[WARN] record chart %s %s: %v", pair, period, err)
	}

	c.JSON(http.StatusOK, chartResponse{
		Pair:     pair.String(),
		Period:   period,
		Provider: res.Provider,
		Columns:  res.Columns,
		Summary:  res.Summary,
	})
}

func (s *Server) getLatestChart(c *gin.Context) {
	pair, err := s.Currencies.Pair(c.Param("from"), c.Param("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	period, err := model.ParsePeriodType(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.Recorder.LatestChart(c.Request.Context(), pair.String(), period)
	if err != nil {
		log.Printf("[ERROR] latest chart %s %s: %v", pair, period, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot recorded"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrProviderNotFound):
		return http.StatusBadRequest
	case errors.Is(err, currency.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrAPIConfig):
		return http.StatusInternalServerError
	case errors.Is(err, collector.ErrAPIRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
