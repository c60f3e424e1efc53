package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/models"
	"github.com/02loveslollipop/yakchatja/services/api/config"
	"github.com/02loveslollipop/yakchatja/services/api/db"
)

var kst = time.FixedZone("KST", 9*60*60)

// Tuesday 2024-01-02 21:30 KST
var fixedNow = time.Date(2024, time.January, 2, 21, 30, 0, 0, kst)

type stubSource struct {
	list    []models.Pharmacy
	err     error
	queries []datago.Query
}

func (s *stubSource) FetchPharmacies(_ context.Context, q datago.Query) ([]models.Pharmacy, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

type favKey struct {
	client uuid.UUID
	id     string
}

type stubStore struct {
	mu        sync.Mutex
	pingErr   error
	snapshot  db.RegionSnapshot
	regionErr error
	byID      map[string]models.Pharmacy
	favs      map[favKey]models.Pharmacy
	order     []favKey
}

func newStubStore() *stubStore {
	return &stubStore{byID: map[string]models.Pharmacy{}, favs: map[favKey]models.Pharmacy{}}
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) RegionPharmacies(context.Context, string, string) (db.RegionSnapshot, error) {
	return s.snapshot, s.regionErr
}

func (s *stubStore) PharmacyByID(_ context.Context, id string) (*models.Pharmacy, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *stubStore) ListFavorites(_ context.Context, client uuid.UUID) ([]db.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Favorite{}
	for _, k := range s.order {
		if p, ok := s.favs[k]; ok && k.client == client {
			out = append(out, db.Favorite{ID: k.id, Pharmacy: p, CreatedAt: fixedNow})
		}
	}
	return out, nil
}

func (s *stubStore) PutFavorite(_ context.Context, client uuid.UUID, p models.Pharmacy) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{client, p.ID()}
	if _, ok := s.favs[k]; !ok {
		s.order = append(s.order, k)
	}
	s.favs[k] = p
	return k.id, nil
}

func (s *stubStore) DeleteFavorite(_ context.Context, client uuid.UUID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := favKey{client, id}
	if _, ok := s.favs[k]; !ok {
		return false, nil
	}
	delete(s.favs, k)
	return true, nil
}

func (s *stubStore) ToggleFavorite(ctx context.Context, client uuid.UUID, p models.Pharmacy) (bool, error) {
	removed, _ := s.DeleteFavorite(ctx, client, p.ID())
	if removed {
		return false, nil
	}
	_, err := s.PutFavorite(ctx, client, p)
	return err == nil, err
}

func pharmacy(name, lat, lng string, slots map[int][2]string) models.Pharmacy {
	p := models.Pharmacy{Name: name, Address: name + " 주소", Lat: lat, Lng: lng}
	for slot, t := range slots {
		p.SetDutyTime(slot, t[0], t[1])
	}
	return p
}

func fixtures() []models.Pharmacy {
	return []models.Pharmacy{
		pharmacy("낮약국", "37.5700", "126.9800", map[int][2]string{2: {"0900", "1800"}}),
		pharmacy("밤약국", "37.5800", "126.9900", map[int][2]string{2: {"0900", "2300"}, 7: {"1000", "1800"}}),
		pharmacy("심야약국", "", "abc", map[int][2]string{2: {"2000", "0200"}, 8: {"1000", "1500"}}),
		pharmacy("시청약국", "37.5666", "126.9781", map[int][2]string{2: {"0800", "2200"}}),
	}
}

func testConfig() config.Config {
	return config.Config{
		Location:    kst,
		DefaultRows: 100,
		MaxRows:     500,
		RegionRows:  300,
	}
}

func newTestServer(cfg config.Config, store *stubStore, source *stubSource) *Server {
	srv := New(cfg, store, source)
	srv.SetClock(func() time.Time { return fixedNow })
	return srv
}

func do(t *testing.T, srv *Server, method, target string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

type annotatedJSON struct {
	ID       string `json:"id"`
	Pharmacy struct {
		Name string `json:"dutyName"`
	} `json:"pharmacy"`
	Hours struct {
		OpenNow   bool   `json:"open_now"`
		Remaining string `json:"remaining"`
		Night     bool   `json:"night"`
	} `json:"hours"`
	Distance string `json:"distance"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func namesOf(list []annotatedJSON) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Pharmacy.Name
	}
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(testConfig(), newStubStore(), &stubSource{})
	rec := do(t, srv, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(testConfig(), store, &stubSource{})
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/readyz", nil, nil).Code)

	store.pingErr = errors.New("down")
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodGet, "/readyz", nil, nil).Code)
}

func TestBearerAuth(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "secret"
	srv := newTestServer(cfg, newStubStore(), &stubSource{})

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/v1/regions", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/v1/regions", nil,
		map[string]string{"Authorization": "Bearer wrong"}).Code)
	rec := do(t, srv, http.MethodGet, "/api/v1/regions", nil, map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(testConfig(), newStubStore(), &stubSource{})
	rec := do(t, srv, http.MethodOptions, "/api/v1/favorites", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), clientIDHeader)
}
