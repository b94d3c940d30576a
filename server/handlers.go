package server

import (
	"errors"
	"net/http"

	"github.com/etnz/folio"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// addRequest is the body of POST /api/holdings.
type addRequest struct {
	Symbol string         `json:"symbol"`
	Shares folio.Quantity `json:"shares"`
}

func (s *Server) getValuation(c *gin.Context) {
	v, ok := s.tracker.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, errorResponse{"no valuation yet"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) listHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Holdings())
}

func (s *Server) addHolding(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	h, err := s.tracker.Add(c.Request.Context(), req.Symbol, req.Shares)
	switch {
	case errors.Is(err, folio.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{err.Error()})
	case errors.Is(err, folio.ErrPriceUnavailable):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{err.Error()})
	case err != nil:
		s.logger.Error("error adding holding", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{err.Error()})
	default:
		c.JSON(http.StatusCreated, h)
	}
}

func (s *Server) removeHolding(c *gin.Context) {
	n, err := s.tracker.Remove(c.Param("symbol"))
	switch {
	case errors.Is(err, folio.ErrNoSelection):
		c.JSON(http.StatusBadRequest, errorResponse{err.Error()})
	case errors.Is(err, folio.ErrNotHeld):
		c.JSON(http.StatusNotFound, errorResponse{err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"removed": n})
	}
}

func (s *Server) refresh(c *gin.Context) {
	s.tracker.RequestRefresh()
	c.Status(http.StatusAccepted)
}
