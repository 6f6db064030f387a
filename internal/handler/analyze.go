package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
)

type AnalyzeHandler struct {
	engine Engine
}

func NewAnalyzeHandler(engine Engine) *AnalyzeHandler {
	return &AnalyzeHandler{engine: engine}
}

type scoreRequest struct {
	Text        string   `json:"text" binding:"required"`
	Temperature *float64 `json:"temperature" binding:"omitempty,min=0,max=1"`
	Region      string   `json:"region"`
}

type classifyRequest struct {
	Text   string `json:"text" binding:"required"`
	Region string `json:"region"`
}

// Score handles POST /score
func (h *AnalyzeHandler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	region, ok := h.region(req.Region)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}
	temperature := h.engine.Config().DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	result := h.engine.Score(req.Text, temperature, region)
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"result": result,
	})
}

// Classify handles POST /classify
func (h *AnalyzeHandler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	region, ok := h.region(req.Region)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}

	d := location.Classify(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"region":      region,
		"location":    d,
		"description": location.Describe(d),
		"filters": gin.H{
			"remoteGlobal": location.MatchesRemoteGlobal(d),
			"remoteRegion": location.MatchesRemoteRegion(d, region),
			"remoteEU":     location.MatchesRemoteEU(d),
			"onsiteRegion": location.MatchesOnSiteRegion(d, region),
			"anyRegion":    location.MatchesAnyRegion(d, region),
		},
	})
}

func (h *AnalyzeHandler) region(raw string) (model.Region, bool) {
	if raw == "" {
		return h.engine.Config().DefaultRegion, true
	}
	return model.ParseRegion(raw)
}
