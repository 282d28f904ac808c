package handler

import (
	"errors"
	"net/http"

	"farmertwin/dto"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

// SearchColdStorageHandler always answers 200: lookup failures fall back to
// generated facilities. The crop is echoed back, not used as a filter.
func SearchColdStorageHandler(c *gin.Context, locator *usecase.FacilityLocator) {
	var req dto.ColdStorageSearchRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	facilities := locator.Search(c.Request.Context(), req.Location)

	utils.Success(c, dto.ColdStorageSearchResponse{
		Status:     "success",
		Crop:       req.Crop,
		Facilities: facilities,
		Count:      len(facilities),
	})
}

func RouteHandler(c *gin.Context, locator *usecase.FacilityLocator) {
	var req dto.RouteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	route, err := locator.Route(c.Request.Context(), req.Start, req.End)
	if err != nil {
		var routeErr *services.RouteError
		switch {
		case errors.As(err, &routeErr):
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "ORS API Error",
				"details": routeErr.Details,
			})
		case errors.Is(err, utils.ErrValidation), errors.Is(err, utils.ErrNotConfigured):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": utils.PublicMessage(err)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": utils.PublicMessage(err)})
		}
		c.Error(err)
		return
	}

	utils.Success(c, dto.RouteResponse{Status: "success", Route: route})
}
