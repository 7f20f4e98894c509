package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the endpoint handlers mounted by NewRouter. A nil handler
// leaves its routes unmounted.
type Handlers struct {
	Health    *HealthHandler
	Videos    *VideoHandler
	Summaries *SummaryHandler
	Chat      *ChatHandler
	Prompts   *PromptHandler
	Settings  *SettingsHandler

	// Metrics serves the Prometheus scrape endpoint at MetricsPath.
	Metrics     http.Handler
	MetricsPath string
}

// NewRouter builds the gin engine with the given middleware and every
// mounted route.
func NewRouter(h Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)

	if h.Health != nil {
		r.GET("/health/live", h.Health.LivenessProbe)
		r.GET("/health/ready", h.Health.ReadinessProbe)
	}
	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(h.Metrics))
	}

	api := r.Group("/api/v1")

	if h.Videos != nil {
		api.POST("/videos/import", h.Videos.ImportVideo)
		api.GET("/videos/:videoId", h.Videos.GetVideo)
		api.PUT("/videos/:videoId/transcript", h.Videos.UploadTranscript)
		api.GET("/videos/:videoId/transcript", h.Videos.GetTranscript)
	}

	if s := h.Summaries; s != nil {
		api.GET("/videos/:videoId/summary", s.GetSummary)
		api.POST("/videos/:videoId/summary/regenerate", s.RegenerateSummary)
		api.GET("/videos/:videoId/summaries", s.ListSummaries)
		api.PUT("/videos/:videoId/summaries/:summaryId/current", s.SetCurrentSummary)
		api.DELETE("/summaries/:summaryId", s.DeleteSummary)

		api.POST("/videos/:videoId/chapters/:chapterTime/summary", s.SummarizeChapter)
		api.GET("/videos/:videoId/chapters/:chapterTime/summaries", s.ListChapterSummaries)
		api.PUT("/videos/:videoId/chapters/:chapterTime/summaries/:summaryId/current", s.SetCurrentChapterSummary)
	}

	if ch := h.Chat; ch != nil {
		api.GET("/chat/:scope/context", ch.GetContext)
		api.POST("/chat/:scope/messages", ch.SendMessage)
		api.GET("/chat/:scope/conversations", ch.ListConversations)
		api.GET("/conversations/:id", ch.GetConversation)
		api.DELETE("/conversations/:id", ch.DeleteConversation)
	}

	if p := h.Prompts; p != nil {
		api.GET("/prompts", p.List)
		api.POST("/prompts", p.Create)
		api.GET("/prompts/:id", p.Get)
		api.PUT("/prompts/:id", p.Update)
		api.DELETE("/prompts/:id", p.Delete)
		api.PUT("/prompts/:id/default", p.SetDefault)
	}

	if st := h.Settings; st != nil {
		api.GET("/models", st.ListModels)
		api.GET("/settings/summarizer", st.GetSummarizerSettings)
		api.PUT("/settings/summarizer", st.UpdateSummarizerSettings)
		api.GET("/settings/import", st.GetImportSettings)
		api.PUT("/settings/import", st.UpdateImportSettings)
	}

	return r
}
