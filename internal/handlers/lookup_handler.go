package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/logger"
	"vernopromo/internal/repositories"
	"vernopromo/internal/services"
)

// LookupHandler — справочники и определение города по IP.
type LookupHandler struct {
	lookups repositories.LookupRepository
	geo     services.GeoLocator
}

func NewLookupHandler(lookups repositories.LookupRepository, geo services.GeoLocator) *LookupHandler {
	return &LookupHandler{lookups: lookups, geo: geo}
}

// GET /api/family_statuses
func (h *LookupHandler) FamilyStatuses(c *gin.Context) {
	statuses, err := h.lookups.ListFamilyStatuses()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// GET /api/cities
func (h *LookupHandler) Cities(c *gin.Context) {
	cities, err := h.lookups.ListCities()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GET /api/current_city — город по IP запроса; null, если города нет в
// справочнике.
func (h *LookupHandler) CurrentCity(c *gin.Context) {
	resp := gin.H{"city_id": nil, "city_name": nil}

	loc, err := h.geo.Locate(c.ClientIP())
	if err != nil {
		logger.Log.Warnf("[lookup][current_city] geoip failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusOK, resp)
		return
	}

	city, err := h.lookups.GetCityByName(loc.City)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if city != nil {
		resp["city_id"] = city.ID
		resp["city_name"] = city.Name
	}
	c.JSON(http.StatusOK, resp)
}
