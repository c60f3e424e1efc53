package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/models"
	"github.com/02loveslollipop/yakchatja/internal/regions"
)

// Region page data sources.
const (
	sourceSnapshot    = "snapshot"
	sourceLive        = "live"
	sourceUnavailable = "unavailable"
)

// handleV1ListRegions returns the accepted province names
// GET /api/v1/regions
func (s *Server) handleV1ListRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": regions.Sido,
		"meta": gin.H{
			"count": len(regions.Sido),
		},
	})
}

// handleV1ListSigungu returns the districts of a province
// GET /api/v1/regions/:sido
func (s *Server) handleV1ListSigungu(c *gin.Context) {
	sido := strings.TrimSpace(c.Param("sido"))
	if !regions.IsSido(sido) {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}

	list := regions.SigunguOf(sido)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sido":    sido,
			"sigungu": list,
		},
		"meta": gin.H{
			"count": len(list),
		},
	})
}

// handleV1RegionPage returns a district's pharmacies with summary counts
// GET /api/v1/regions/:sido/:sigungu
func (s *Server) handleV1RegionPage(c *gin.Context) {
	sigungu := strings.TrimSpace(c.Param("sigungu"))
	if sigungu == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}
	s.renderRegion(c, regions.Region{Sido: strings.TrimSpace(c.Param("sido")), Sigungu: sigungu})
}

// handleV1ProvincePage is the region page of a whole province
// GET /api/v1/regions/:sido/all
func (s *Server) handleV1ProvincePage(c *gin.Context) {
	s.renderRegion(c, regions.Region{Sido: strings.TrimSpace(c.Param("sido"))})
}

func (s *Server) renderRegion(c *gin.Context, region regions.Region) {
	if !region.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}

	ref, err := refParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, source, syncedAt := s.regionPharmacies(c.Request.Context(), region)

	now := s.localNow()
	data := finder.Annotate(list, now, ref)
	if ref != nil {
		finder.SortByDistance(data)
	}

	meta := gin.H{
		"count":              len(data),
		"source":             source,
		"sorted_by_distance": ref != nil,
		"generated_at":       now.Format(time.RFC3339),
	}
	if syncedAt != nil {
		meta["synced_at"] = syncedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"region":     region,
			"title":      region.String(),
			"summary":    finder.Summarize(data, now),
			"pharmacies": data,
		},
		"meta": meta,
	})
}

// regionPharmacies prefers the synced snapshot and falls back to a live
// fetch. A failing upstream yields an empty list rather than an error.
func (s *Server) regionPharmacies(ctx context.Context, region regions.Region) ([]models.Pharmacy, string, *time.Time) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	snap, err := s.store.RegionPharmacies(dbCtx, region.Sido, region.Sigungu)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("region", region.String()).Msg("region snapshot unavailable")
	} else if len(snap.Pharmacies) > 0 {
		return snap.Pharmacies, sourceSnapshot, snap.SyncedAt
	}

	upCtx, cancel := s.upstreamContext(ctx)
	defer cancel()

	list, err := s.source.FetchPharmacies(upCtx, datago.Query{
		Sido:      region.Sido,
		Sigungu:   region.Sigungu,
		NumOfRows: s.cfg.RegionRows,
	})
	if err != nil {
		log.Error().Err(err).Str("region", region.String()).Msg("live region fetch failed")
		return []models.Pharmacy{}, sourceUnavailable, nil
	}
	return list, sourceLive, nil
}
