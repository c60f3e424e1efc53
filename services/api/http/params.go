package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/geo"
	"github.com/02loveslollipop/yakchatja/internal/regions"
)

// searchParams is a parsed pharmacy search request.
type searchParams struct {
	Query  datago.Query
	Filter finder.Filter
	Ref    *geo.Coordinate
}

func (s *Server) parseSearch(c *gin.Context) (searchParams, error) {
	var p searchParams

	p.Query.Sido = strings.TrimSpace(c.Query("Q0"))
	p.Query.Sigungu = strings.TrimSpace(c.Query("Q1"))
	p.Query.Name = strings.TrimSpace(c.Query("QN"))
	if p.Query.Sido == "" && p.Query.Name == "" {
		return p, fmt.Errorf("Q0 or QN is required")
	}
	if p.Query.Sido != "" && !regions.IsSido(p.Query.Sido) {
		return p, fmt.Errorf("unknown Q0 %q", p.Query.Sido)
	}

	pageNo, err := intParam(c, "pageNo", 1)
	if err != nil {
		return p, err
	}
	p.Query.PageNo = pageNo

	rows, err := intParam(c, "numOfRows", s.cfg.DefaultRows)
	if err != nil {
		return p, err
	}
	if s.cfg.MaxRows > 0 && rows > s.cfg.MaxRows {
		rows = s.cfg.MaxRows
	}
	p.Query.NumOfRows = rows

	for name, dst := range map[string]*bool{
		"open":    &p.Filter.OpenNow,
		"night":   &p.Filter.Night,
		"sunday":  &p.Filter.Sunday,
		"holiday": &p.Filter.Holiday,
	} {
		if *dst, err = boolParam(c, name); err != nil {
			return p, err
		}
	}

	ref, err := refParam(c)
	if err != nil {
		return p, err
	}
	p.Ref = ref
	return p, nil
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func boolParam(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// refParam reads the lat/lng reference point. Both absent means no ranking.
func refParam(c *gin.Context) (*geo.Coordinate, error) {
	lat, lng := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lng"))
	if lat == "" && lng == "" {
		return nil, nil
	}
	coord, ok := geo.ParseCoordinate(lat, lng)
	if !ok {
		return nil, fmt.Errorf("invalid lat/lng")
	}
	return &coord, nil
}
