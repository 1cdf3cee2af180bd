package httpapi

import "github.com/gin-gonic/gin"

// Mount registers the probes on r and the conversation API under /v1.
// scoped runs before every /v1 handler; tenant resolution belongs there.
func Mount(r gin.IRouter, h Handlers, scoped ...gin.HandlerFunc) {
	r.GET("/healthz", h.Health)
	r.GET("/readyz", h.Readiness)

	v1 := r.Group("/v1", scoped...)
	convs := v1.Group("/conversations")
	{
		convs.GET("", h.ListConversations)
		convs.POST("", h.CreateConversation)
		convs.POST("/query", h.QueryConversations)
		convs.GET("/stats", h.ConversationStats)
		convs.GET("/:id", h.GetConversation)
		convs.PATCH("/:id", h.UpdateConversation)
		convs.DELETE("/:id", h.DeleteConversation)
	}
}
