package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/yakchatja/internal/cache"
	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/geo"
	"github.com/02loveslollipop/yakchatja/internal/models"
	"github.com/02loveslollipop/yakchatja/internal/regions"
)

type pharmacySource interface {
	FetchAll(ctx context.Context, q datago.Query, maxPages int) ([]models.Pharmacy, error)
}

// newSource builds the upstream client from the environment. The returned
// func releases the optional cache connection. Tests replace it.
var newSource = func(ctx context.Context) (pharmacySource, func(), error) {
	_ = godotenv.Load(".env")

	key := strings.TrimSpace(os.Getenv("DATA_API_KEY"))
	if key == "" {
		return nil, nil, errors.New("DATA_API_KEY is required")
	}
	client := datago.New(key, &http.Client{Timeout: 15 * time.Second})
	if base := strings.TrimSpace(os.Getenv("DATA_API_BASE_URL")); base != "" {
		client.BaseURL = base
	}

	release := func() {}
	if url := strings.TrimSpace(os.Getenv("REDIS_URL")); url != "" {
		rc, err := cache.NewRedis(ctx, url, "yakguk:")
		if err != nil {
			log.Debug().Err(err).Msg("redis unavailable, running without cache")
		} else {
			client.Cache = rc
			release = func() {
				if err := rc.Close(); err != nil {
					log.Debug().Err(err).Msg("redis close failed")
				}
			}
		}
	}
	return client, release, nil
}

// searchOptions are the region, filter and location flags shared by the
// search, hours and export commands.
type searchOptions struct {
	sido     string
	sigungu  string
	name     string
	rows     int
	maxPages int
	open     bool
	night    bool
	sunday   bool
	holiday  bool
	lat      string
	lng      string
	timezone string
}

func (o *searchOptions) addFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&o.sido, "sido", "", "province or metropolitan city (Q0), e.g. 서울특별시")
	f.StringVar(&o.sigungu, "sigungu", "", "district (Q1), e.g. 종로구")
	f.StringVar(&o.name, "name", "", "pharmacy name filter (QN)")
	f.IntVar(&o.rows, "rows", datago.DefaultNumOfRows, "rows per upstream page")
	f.IntVar(&o.maxPages, "max-pages", 1, "upstream pages to read (0 = all)")
	f.BoolVar(&o.open, "open", false, "only pharmacies open now")
	f.BoolVar(&o.night, "night", false, "only night pharmacies")
	f.BoolVar(&o.sunday, "sunday", false, "only pharmacies open on Sunday")
	f.BoolVar(&o.holiday, "holiday", false, "only pharmacies open on holidays")
	f.StringVar(&o.lat, "lat", "", "latitude of the reference point")
	f.StringVar(&o.lng, "lng", "", "longitude of the reference point")
	f.StringVar(&o.timezone, "timezone", "Asia/Seoul", "time zone used for opening hours")
}

func (o *searchOptions) validate() error {
	if strings.TrimSpace(o.sido) == "" && strings.TrimSpace(o.name) == "" {
		return errors.New("--sido or --name is required")
	}
	if o.sido != "" && !regions.IsSido(o.sido) {
		return fmt.Errorf("unknown --sido %q", o.sido)
	}
	if o.rows <= 0 {
		return errors.New("--rows must be positive")
	}
	return nil
}

func (o *searchOptions) query() datago.Query {
	return datago.Query{Sido: o.sido, Sigungu: o.sigungu, Name: o.name, NumOfRows: o.rows}
}

func (o *searchOptions) filter() finder.Filter {
	return finder.Filter{OpenNow: o.open, Night: o.night, Sunday: o.sunday, Holiday: o.holiday}
}

func (o *searchOptions) reference() (*geo.Coordinate, error) {
	if o.lat == "" && o.lng == "" {
		return nil, nil
	}
	c, ok := geo.ParseCoordinate(o.lat, o.lng)
	if !ok {
		return nil, fmt.Errorf("invalid --lat/--lng %q,%q", o.lat, o.lng)
	}
	return &c, nil
}

func (o *searchOptions) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid --timezone: %w", err)
	}
	return loc, nil
}

// run fetches and derives the result at now.
func (o *searchOptions) run(ctx context.Context, now time.Time) ([]models.Annotated, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	ref, err := o.reference()
	if err != nil {
		return nil, err
	}
	loc, err := o.location()
	if err != nil {
		return nil, err
	}

	src, release, err := newSource(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	list, err := src.FetchAll(ctx, o.query(), o.maxPages)
	if err != nil {
		return nil, err
	}
	return finder.Search(list, now.In(loc), o.filter(), ref), nil
}
