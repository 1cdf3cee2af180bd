package httpapi

import (
	"context"
	"errors"
	"net/http"

	"telephony-log/internal/conversations"
	"telephony-log/internal/tenant"
	"telephony-log/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ConversationService is the slice of conversations.Service the API needs.
type ConversationService interface {
	List(ctx context.Context, tenant string, p *conversations.Pagination, f *conversations.Filters) (conversations.Connection, error)
	Get(ctx context.Context, tenant, id string) (conversations.Conversation, error)
	Create(ctx context.Context, in conversations.CreateInput) (conversations.Conversation, error)
	Update(ctx context.Context, tenant, id string, in conversations.UpdateInput) (conversations.Conversation, error)
	Remove(ctx context.Context, tenant, id string) (bool, error)
	Stats(ctx context.Context, tenant string) (conversations.Stats, error)
}

// Pinger reports store readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call the service, map errors, return JSON.
type Handlers struct {
	Conversations ConversationService
	Ready         Pinger
}

type queryRequest struct {
	Pagination *conversations.Pagination `json:"pagination"`
	Filters    *conversations.Filters    `json:"filters"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h Handlers) Readiness(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ListConversations serves GET /v1/conversations with filters in the query string.
func (h Handlers) ListConversations(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	p, f, err := parseListQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := h.Conversations.List(c.Request.Context(), domain, p, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// QueryConversations serves POST /v1/conversations/query with a JSON body.
func (h Handlers) QueryConversations(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	var req queryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Conversations.List(c.Request.Context(), domain, req.Pagination, req.Filters)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetConversation(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	conv, err := h.Conversations.Get(c.Request.Context(), domain, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h Handlers) CreateConversation(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	var in conversations.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	in.TenantDomain = domain

	conv, err := h.Conversations.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h Handlers) UpdateConversation(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	var in conversations.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	conv, err := h.Conversations.Update(c.Request.Context(), domain, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h Handlers) DeleteConversation(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	deleted, err := h.Conversations.Remove(c.Request.Context(), domain, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Deleted: deleted})
}

func (h Handlers) ConversationStats(c *gin.Context) {
	domain, ok := requireTenant(c)
	if !ok {
		return
	}
	stats, err := h.Conversations.Stats(c.Request.Context(), domain)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func requireTenant(c *gin.Context) (string, bool) {
	domain := tenant.Domain(c.Request.Context())
	if domain == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant not resolved"})
		return "", false
	}
	return domain, true
}

// writeError maps service errors to HTTP responses. Unclassified errors are
// attached to the gin context for the request log and never echoed.
func writeError(c *gin.Context, err error) {
	var nf *conversations.NotFoundError
	var verr *conversations.ValidationError
	switch {
	case errors.As(err, &nf):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, conversations.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, conversations.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.FromGin(c).Debug("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
