package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/yakchatja/internal/regions"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/yakguk")
	t.Setenv("DATA_API_KEY", "key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("WATCHER_REGIONS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, cfg.PageSize)
	assert.Equal(t, defaultMaxPages, cfg.MaxPages)
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	assert.False(t, cfg.DryRun)
	assert.Len(t, cfg.Regions, len(regions.Sido))
	assert.Empty(t, cfg.Regions[0].Sigungu)
}

func TestLoad_Required(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_API_KEY", "key")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/yakguk")
	t.Setenv("DATA_API_KEY", "")
	_, err = Load()
	assert.ErrorContains(t, err, "DATA_API_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WATCHER_REGIONS", "서울특별시:종로구;부산광역시:")
	t.Setenv("WATCHER_PAGE_SIZE", "50")
	t.Setenv("WATCHER_MAX_PAGES", "0")
	t.Setenv("WATCHER_REQUEST_TIMEOUT", "5s")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []regions.Region{
		{Sido: "서울특별시", Sigungu: "종로구"},
		{Sido: "부산광역시"},
	}, cfg.Regions)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 0, cfg.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.DryRun)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"region":           {"WATCHER_REGIONS", "아무데나:구"},
		"unknown sigungu":  {"WATCHER_REGIONS", "서울특별시:없는구"},
		"foreign sigungu":  {"WATCHER_REGIONS", "서울특별시:수원시"},
		"size":             {"WATCHER_PAGE_SIZE", "0"},
		"pages":            {"WATCHER_MAX_PAGES", "-1"},
		"timeout":          {"WATCHER_REQUEST_TIMEOUT", "soon"},
		"zero timeout":     {"WATCHER_REQUEST_TIMEOUT", "0s"},
		"negative timeout": {"WATCHER_REQUEST_TIMEOUT", "-5s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.ErrorContains(t, err, kv[0])
		})
	}
}

func TestRegionTimeout_ScalesWithPages(t *testing.T) {
	cfg := Config{MaxPages: 20, RequestTimeout: 30 * time.Second}
	assert.Equal(t, 20*30*time.Second+regionSlack, cfg.RegionTimeout())

	cfg.MaxPages = 1
	assert.Equal(t, 30*time.Second+regionSlack, cfg.RegionTimeout())

	cfg.MaxPages = 0
	assert.Equal(t, unboundedPages*30*time.Second+regionSlack, cfg.RegionTimeout())
}
