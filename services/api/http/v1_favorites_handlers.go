package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/models"
)

const (
	clientIDHeader = "X-Client-ID"
	clientIDKey    = "client_id"
)

// favoriteView is an annotated favorite with the time it was saved.
type favoriteView struct {
	models.Annotated
	CreatedAt time.Time `json:"created_at"`
}

// clientIDMiddleware requires a UUID in the X-Client-ID header.
func clientIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(clientIDHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": clientIDHeader + " header is required"})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + clientIDHeader})
			return
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

func clientID(c *gin.Context) uuid.UUID {
	return c.MustGet(clientIDKey).(uuid.UUID)
}

// bindPharmacy decodes a pharmacy snapshot body.
func bindPharmacy(c *gin.Context) (models.Pharmacy, bool) {
	var p models.Pharmacy
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pharmacy body: " + err.Error()})
		return p, false
	}
	if strings.TrimSpace(p.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dutyName is required"})
		return p, false
	}
	return p, true
}

// handleV1IssueClientID hands out a new anonymous client id
// POST /api/v1/favorites/client
func (s *Server) handleV1IssueClientID(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{"client_id": uuid.New().String()},
	})
}

// handleV1ListFavorites returns the client's favorites with today's hours
// GET /api/v1/favorites
func (s *Server) handleV1ListFavorites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	favs, err := s.store.ListFavorites(ctx, clientID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ref, err := refParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := make([]models.Pharmacy, len(favs))
	for i, f := range favs {
		list[i] = f.Pharmacy
	}
	annotated := finder.Annotate(list, s.localNow(), ref)

	data := make([]favoriteView, len(favs))
	for i, f := range favs {
		data[i] = favoriteView{Annotated: annotated[i], CreatedAt: f.CreatedAt}
		data[i].ID = f.ID
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"count": len(data),
		},
	})
}

// handleV1PutFavorite saves a pharmacy snapshot
// PUT /api/v1/favorites/:id
func (s *Server) handleV1PutFavorite(c *gin.Context) {
	p, ok := bindPharmacy(c)
	if !ok {
		return
	}
	if id := c.Param("id"); id != p.ID() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id does not match pharmacy", "expected": p.ID()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := s.store.PutFavorite(ctx, clientID(c), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "favorite": true}})
}

// handleV1ToggleFavorite saves or removes a pharmacy
// POST /api/v1/favorites/toggle
func (s *Server) handleV1ToggleFavorite(c *gin.Context) {
	p, ok := bindPharmacy(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	on, err := s.store.ToggleFavorite(ctx, clientID(c), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": p.ID(), "favorite": on}})
}

// handleV1DeleteFavorite removes a saved pharmacy
// DELETE /api/v1/favorites/:id
func (s *Server) handleV1DeleteFavorite(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	removed, err := s.store.DeleteFavorite(ctx, clientID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
