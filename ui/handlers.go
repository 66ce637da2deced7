package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"datagraph/app"
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
	"datagraph/internal/analysis/grouped"
	"datagraph/internal/analysis/pairwise"
	"datagraph/internal/errors"

	"github.com/gin-gonic/gin"
)

type selectionResponse struct {
	X *core.VariableKey `json:"x"`
	Y *core.VariableKey `json:"y"`
}

type sessionResponse struct {
	ID        core.SessionID         `json:"id"`
	Kind      app.PlotKind           `json:"kind"`
	State     dataset.SelectionState `json:"state"`
	Selection selectionResponse      `json:"selection"`
	Chart     *stats.Chart           `json:"chart,omitempty"`
}

type dropRequest struct {
	Variable string `json:"variable" binding:"required"`
}

type correlateRequest struct {
	X string `json:"x" binding:"required"`
	Y string `json:"y" binding:"required"`
}

type correlateResponse struct {
	Series stats.PairwiseSeries `json:"series"`
	Chart  stats.Chart          `json:"chart"`
	Policy string               `json:"policy"`
}

type aggregateRequest struct {
	Variable       string   `json:"variable" binding:"required"`
	LabelsVariable string   `json:"labels_variable"`
	Labels         []string `json:"labels"`
}

type aggregateResponse struct {
	Series      stats.BucketSeries `json:"series"`
	Displayable bool               `json:"displayable"`
	Labels      []string           `json:"labels"`
}

func newSessionResponse(session *app.PlotSession, chart *stats.Chart) sessionResponse {
	sel := session.Selection()
	return sessionResponse{
		ID:        session.ID,
		Kind:      session.Kind,
		State:     sel.State(),
		Selection: selectionResponse{X: sel.X, Y: sel.Y},
		Chart:     chart,
	}
}

// handleVariables lists the variable palette, optionally filtered by ?shape=
func (s *Server) handleVariables(c *gin.Context) {
	shape := dataset.Shape(c.Query("shape"))
	switch shape {
	case "", dataset.ShapeFlat, dataset.ShapeBucketed, dataset.ShapeCategorical:
	default:
		respondError(c, errors.InvalidInput(fmt.Sprintf("unknown shape %q", shape)))
		return
	}

	reg := s.registry.Registry()
	c.JSON(http.StatusOK, gin.H{
		"version":   reg.Version().Short(),
		"variables": app.FilterCatalog(app.BuildCatalog(reg), shape),
	})
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions := s.sessions.List()
	out := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, newSessionResponse(session, nil))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) handleCreateSession(kind app.PlotKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.sessions.Create(kind)
		chart, err := session.Chart()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newSessionResponse(session, &chart))
	}
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session, nil))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	s.sessions.Delete(session.ID)
	c.Status(http.StatusNoContent)
}

// handleDropAxis assigns a variable to an axis, the drop half of drag-and-drop
func (s *Server) handleDropAxis(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	axis, err := core.ParseAxis(c.Param("axis"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	key, err := core.ParseVariableKey(req.Variable)
	if err != nil {
		badRequest(c, err)
		return
	}

	chart, err := session.Drop(axis, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session, &chart))
}

func (s *Server) handleClearAxis(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	axis, err := core.ParseAxis(c.Param("axis"))
	if err != nil {
		respondError(c, err)
		return
	}

	chart, err := session.Clear(axis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session, &chart))
}

func (s *Server) handleChart(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	chart, err := session.Chart()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (s *Server) handleToggleChartType(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	chart, err := session.ToggleChartType()
	if err != nil {
		if stderrors.Is(err, app.ErrChartTypeFixed) {
			err = errors.WithCode(errors.CodeValidationError, err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// handleCorrelate runs the pairwise pipeline without a session
func (s *Server) handleCorrelate(c *gin.Context) {
	var req correlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	x, y := core.VariableKey(req.X), core.VariableKey(req.Y)
	series, err := s.analysis.Correlate(x, y)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, correlateResponse{
		Series: series,
		Chart:  pairwise.ToChart(dataset.NewAxisSelection(x, y), series),
		Policy: s.analysis.Policy().String(),
	})
}

// handleAggregate runs the grouped pipeline without a session. Labels come
// from an explicit list or from a categorical variable.
func (s *Server) handleAggregate(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	y := core.VariableKey(req.Variable)
	var (
		series stats.BucketSeries
		err    error
	)
	switch {
	case len(req.Labels) > 0:
		series, err = s.analysis.AggregateLabels(req.Labels, y)
	case req.LabelsVariable != "":
		series, err = s.analysis.Aggregate(core.VariableKey(req.LabelsVariable), y)
	default:
		badRequest(c, fmt.Errorf("labels or labels_variable is required"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	labels := make([]string, len(series.Entries))
	for i, e := range series.Entries {
		labels[i] = e.Label
	}
	c.JSON(http.StatusOK, aggregateResponse{
		Series:      series,
		Displayable: grouped.Displayable(series),
		Labels:      grouped.FormatLabels(labels),
	})
}

// lookupSession resolves the :id parameter, responding 404 when it does not
// name a live session
func (s *Server) lookupSession(c *gin.Context) (*app.PlotSession, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", core.ErrSessionNotFound, err))
		return nil, false
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}
