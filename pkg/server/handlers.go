package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/history"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/metrics"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Features *[]json.RawMessage `json:"features"`
}

// PredictResponse is a successful prediction.
type PredictResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// ErrorResponse carries a request-level error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) predictHandler(c *gin.Context) {
	a := s.model.Load()
	if a == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "model is loading"})
		return
	}

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RejectedRequestsTotal.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Features == nil {
		metrics.RejectedRequestsTotal.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "features is required"})
		return
	}

	raw := *req.Features
	if len(raw) != s.schema.NumFeatures() {
		// Length mismatches are answered with 200 and an error payload.
		err := &pipeline.MismatchError{Expected: s.schema.NumFeatures(), Got: len(raw)}
		metrics.RejectedRequestsTotal.WithLabelValues("length").Inc()
		c.JSON(http.StatusOK, ErrorResponse{Error: err.Error()})
		return
	}

	features, err := coerceFeatures(raw)
	if err != nil {
		metrics.RejectedRequestsTotal.WithLabelValues("non_numeric").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	label, proba, err := a.Pipeline.PredictVector(features)
	if err != nil {
		if errors.Is(err, pipeline.ErrSchemaMismatch) {
			metrics.RejectedRequestsTotal.WithLabelValues("length").Inc()
			c.JSON(http.StatusOK, ErrorResponse{Error: err.Error()})
			return
		}
		logging.L(c.Request.Context()).Error("prediction failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "prediction failed"})
		return
	}

	metrics.ObservePrediction(label, proba)
	if s.recorder != nil {
		s.recorder.Record(history.Record{
			RequestID:   logging.RequestID(c.Request.Context()),
			Features:    features,
			Prediction:  label,
			Probability: proba,
			ModelTag:    a.Metadata.TrainedAt,
		})
	}
	c.JSON(http.StatusOK, PredictResponse{Prediction: label, Probability: proba})
}

// coerceFeatures accepts JSON numbers and numeric strings.
func coerceFeatures(raw []json.RawMessage) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, r := range raw {
		v, err := coerceValue(r)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceValue(r json.RawMessage) (float64, error) {
	text := strings.TrimSpace(string(r))
	var f float64
	if text != "null" {
		if err := json.Unmarshal(r, &f); err == nil {
			return f, nil
		}
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("could not convert %s to a number", text)
}

func (s *Server) listPredictionsHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "prediction history is disabled"})
		return
	}
	limit := history.DefaultLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = history.ClampLimit(n)
	}

	records, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("list predictions failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"predictions": records,
		"limit":       limit,
	})
}

func (s *Server) predictionStatsHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "prediction history is disabled"})
		return
	}
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("prediction stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) livenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	a := s.model.Load()
	if a == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": StateLoading})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         StateReady,
		"trained_at":     a.Metadata.TrainedAt,
		"best_params":    a.Metadata.BestParams,
		"schema_version": a.Metadata.SchemaVersion,
	})
}
