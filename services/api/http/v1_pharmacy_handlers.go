package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/export"
	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/hours"
	"github.com/02loveslollipop/yakchatja/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// search runs the upstream query and derives the annotated, filtered result.
// The int is the number of records fetched before filtering.
func (s *Server) search(ctx context.Context, p searchParams) ([]models.Annotated, int, error) {
	ctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	list, err := s.source.FetchPharmacies(ctx, p.Query)
	if err != nil {
		return nil, 0, err
	}
	return finder.Search(list, s.localNow(), p.Filter, p.Ref), len(list), nil
}

// handleV1SearchPharmacies returns live pharmacies with derived hours
// GET /api/v1/pharmacies?Q0=&Q1=&QN=&open=&night=&sunday=&holiday=&lat=&lng=
func (s *Server) handleV1SearchPharmacies(c *gin.Context) {
	params, err := s.parseSearch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, fetched, err := s.search(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Str("sido", params.Query.Sido).Str("sigungu", params.Query.Sigungu).Msg("upstream search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch pharmacies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"count":              len(data),
			"total_fetched":      fetched,
			"page_no":            params.Query.PageNo,
			"num_of_rows":        params.Query.NumOfRows,
			"sorted_by_distance": params.Ref != nil,
			"generated_at":       s.localNow().Format(time.RFC3339),
		},
	})
}

// handleV1ExportPharmacies streams the search result as an xlsx workbook
// GET /api/v1/pharmacies/export
func (s *Server) handleV1ExportPharmacies(c *gin.Context) {
	params, err := s.parseSearch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, _, err := s.search(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("upstream export failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch pharmacies"})
		return
	}

	var buf bytes.Buffer
	if err := export.WritePharmacies(&buf, data, export.DefaultSheet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("pharmacies-%s.xlsx", s.localNow().Format("20060102-1504"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleV1GetPharmacy returns one synced pharmacy with its weekly hours
// GET /api/v1/pharmacies/:id
func (s *Server) handleV1GetPharmacy(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pharmacy id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	p, err := s.store.PharmacyByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pharmacy not found"})
		return
	}

	ref, err := refParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := s.localNow()
	annotated := finder.Annotate([]models.Pharmacy{*p}, now, ref)[0]
	c.JSON(http.StatusOK, gin.H{
		"data": annotated,
		"meta": gin.H{
			"today_label":  hours.TodayLabel(now),
			"generated_at": now.Format(time.RFC3339),
		},
	})
}

func (s *Server) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.UpstreamWait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.UpstreamWait)
}
