package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/pharmacies, /api/v1/regions, /api/v1/favorites
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Live search proxied to data.go.kr
	pharmacies := v1.Group("/pharmacies")
	{
		pharmacies.GET("", s.handleV1SearchPharmacies)
		pharmacies.GET("/export", s.handleV1ExportPharmacies)
		pharmacies.GET("/:id", s.handleV1GetPharmacy)
	}

	// Region pages backed by the watcher's snapshots
	regions := v1.Group("/regions")
	{
		regions.GET("", s.handleV1ListRegions)
		regions.GET("/:sido", s.handleV1ListSigungu)
		regions.GET("/:sido/all", s.handleV1ProvincePage)
		regions.GET("/:sido/:sigungu", s.handleV1RegionPage)
	}

	// Favorites keyed by an anonymous client id
	v1.POST("/favorites/client", s.handleV1IssueClientID)
	favorites := v1.Group("/favorites")
	favorites.Use(clientIDMiddleware())
	{
		favorites.GET("", s.handleV1ListFavorites)
		favorites.PUT("/:id", s.handleV1PutFavorite)
		favorites.POST("/toggle", s.handleV1ToggleFavorite)
		favorites.DELETE("/:id", s.handleV1DeleteFavorite)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
