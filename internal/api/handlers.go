package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/kppsim/internal/automation"
	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/simerr"
	"github.com/san-kum/kppsim/internal/storage"
)

// FieldError is one rejected parameter in a 422 response.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      string `json:"value"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": s.registry.ListPresets()})
}

func (s *Server) getPreset(c *gin.Context) {
	p, ok := config.GetPreset(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset: " + c.Param("name")})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) listParams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"params": config.ParamNames()})
}

func (s *Server) listMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.registry.ListMetrics()})
}

// basePreset reads ?preset=, default baseline.
func basePreset(c *gin.Context) (config.Params, bool) {
	name := c.DefaultQuery("preset", "baseline")
	p, ok := config.GetPreset(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset: " + name})
	}
	return p, ok
}

// bindBody decodes the JSON body, if any, over dst.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// fail maps a run error onto the HTTP contract: configuration problems are
// the caller's (422, every field listed), anything else is ours (500, no
// details).
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, simerr.ErrConfig) {
		fields := []FieldError{}
		for _, ce := range simerr.Fields(err) {
			fields = append(fields, FieldError{
				Field:      ce.Field,
				Constraint: ce.Constraint,
				Value:      strconv.FormatFloat(ce.Value, 'g', -1, 64),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid configuration", "fields": fields})
		return
	}

	s.logger.Error("simulation failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
}

func (s *Server) simulate(c *gin.Context) {
	p, ok := basePreset(c)
	if !ok || !bindBody(c, &p) {
		return
	}

	exp := experiment.New("api", p)
	if err := exp.Setup(s.registry, s.logger); err != nil {
		s.fail(c, err)
		return
	}
	result, err := exp.Run(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	series := c.Query("series") == "true"
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := storage.ExportJSON(c.Writer, p, result, series); err != nil {
		s.logger.Error("writing response", "err", err)
	}
}

// SweepRequest is the body of POST /api/v1/sweep.
type SweepRequest struct {
	Params   *config.Params `json:"params"`
	Param    string         `json:"param"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	NumSteps int            `json:"steps"`
}

func (s *Server) sweep(c *gin.Context) {
	base, ok := basePreset(c)
	if !ok {
		return
	}
	req := SweepRequest{Params: &base}
	if !bindBody(c, &req) {
		return
	}
	if req.Params != nil {
		base = *req.Params
	}
	if _, err := base.Get(req.Param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NumSteps < 2 || req.NumSteps > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("steps must be in [2, 100], got %d", req.NumSteps)})
		return
	}

	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: req.Param,
		Min:       req.Min,
		Max:       req.Max,
		NumSteps:  req.NumSteps,
	}

	results, err := automation.RunSweep(c.Request.Context(), sweep, s.registry, s.logger)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"param": req.Param, "points": results})
}
