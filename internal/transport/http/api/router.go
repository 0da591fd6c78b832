package apihttp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sharpline/internal/logger"
	"sharpline/internal/prediction"
	"sharpline/internal/quota"
)

// Router serves the /api endpoints.
type Router struct {
	svc      PredictionService
	models   []ModelInfo
	defaults RequestDefaults
	maxBody  int64
}

func NewRouter(svc PredictionService, models []ModelInfo, defaults RequestDefaults, maxBody int64) *Router {
	if defaults.Sport == "" {
		defaults.Sport = "NBA"
	}
	if defaults.BetType == "" {
		defaults.BetType = string(prediction.BetMoneyline)
	}
	return &Router{svc: svc, models: models, defaults: defaults, maxBody: maxBody}
}

func (r *Router) Register(group *gin.RouterGroup) {
	group.POST("/predict", r.handlePredict)
	group.GET("/models", r.handleModels)
	group.GET("/quota", r.handleQuota)
}

func (r *Router) handlePredict(c *gin.Context) {
	if r.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, r.maxBody)
	}
	var body predictRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	req := r.toRequest(body)
	req.Identity = identityFrom(c)

	resp, err := r.svc.Predict(c.Request.Context(), req)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) toRequest(body predictRequest) prediction.Request {
	sport := strings.TrimSpace(body.Sport)
	if sport == "" {
		sport = r.defaults.Sport
	}
	betRaw := strings.TrimSpace(body.BetType)
	if betRaw == "" {
		betRaw = r.defaults.BetType
	}
	betType := prediction.BetType(betRaw)
	if bt, ok := prediction.ParseBetType(betRaw); ok {
		betType = bt
	}
	models := body.Models
	if len(models) == 0 {
		models = r.defaults.Models
	}
	return prediction.Request{
		Input: prediction.Input{
			Sport:       sport,
			Event:       strings.TrimSpace(body.Event),
			BetType:     betType,
			Odds:        body.Odds,
			Prompt:      strings.TrimSpace(body.Prompt),
			ThinkHarder: body.ThinkHarder,
			Images:      body.Images,
		},
		Models:     models,
		NotebookID: strings.TrimSpace(body.SaveToNotebookID),
	}
}

func (r *Router) writeError(c *gin.Context, err error) {
	var (
		verr     *prediction.ValidationError
		exceeded *quota.ExceededError
		primary  *prediction.PrimaryFailedError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	case errors.As(err, &exceeded):
		limit := exceeded.Limit
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: exceeded.Error(), Limit: &limit})
	case errors.As(err, &primary):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: primary.Message})
	default:
		logger.Errorf("predict failed rid=%s: %v", c.GetString(ctxRequestID), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Prediction failed"})
	}
}

func (r *Router) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": r.models})
}

func (r *Router) handleQuota(c *gin.Context) {
	id := identityFrom(c)
	dec, err := r.svc.Usage(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("quota usage failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Quota lookup failed"})
		return
	}
	c.JSON(http.StatusOK, quotaResponse{Used: dec.Used, Limit: dec.Limit, Remaining: dec.Remaining(), Guest: id.Guest()})
}
