package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"mention-radar/aggregator"
	"mention-radar/cmd/api/dto"
	"mention-radar/cmd/api/services"
)

// CreateSavedSearchHandler godoc
// @Summary      Create a saved search
// @Tags         saved-searches
// @Accept       json
// @Param        request  body  dto.SavedSearchRequestDTO  true  "Saved search"
// @Produce      json
// @Success      201  {object}  dto.SavedSearchDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /searches [post]
func CreateSavedSearchHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.SavedSearchRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body"})
			return
		}
		out, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// ListSavedSearchesHandler godoc
// @Summary      List saved searches by owner
// @Tags         saved-searches
// @Param        owner  query  string  true   "Owner identifier"
// @Param        limit  query  int     false  "Max results"
// @Produce      json
// @Success      200  {array}  dto.SavedSearchDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /searches [get]
func ListSavedSearchesHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		out, err := svc.ListByOwner(c.Request.Context(), c.Query("owner"), limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetSavedSearchHandler godoc
// @Summary      Get a saved search by id
// @Tags         saved-searches
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.SavedSearchDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /searches/{id} [get]
func GetSavedSearchHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// UpdateSavedSearchHandler godoc
// @Summary      Update a saved search
// @Tags         saved-searches
// @Accept       json
// @Param        id       path  string                     true  "ObjectID"
// @Param        request  body  dto.SavedSearchRequestDTO  true  "Saved search"
// @Produce      json
// @Success      200  {object}  dto.SavedSearchDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /searches/{id} [put]
func UpdateSavedSearchHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.SavedSearchRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body"})
			return
		}
		out, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DeleteSavedSearchHandler godoc
// @Summary      Delete a saved search
// @Tags         saved-searches
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /searches/{id} [delete]
func DeleteSavedSearchHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "saved search deleted"})
	}
}

// RunSavedSearchHandler godoc
// @Summary      Re-run a saved search
// @Description  Executes the saved search through the aggregation engine, records the run and fires an alert when the threshold is reached
// @Tags         saved-searches
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.SearchResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /searches/{id}/run [post]
func RunSavedSearchHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Run(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// ListAlertsHandler godoc
// @Summary      List alerts fired by a saved search
// @Tags         saved-searches
// @Param        id     path   string  true   "ObjectID"
// @Param        limit  query  int     false  "Max results"
// @Produce      json
// @Success      200  {array}  dto.AlertDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /searches/{id}/alerts [get]
func ListAlertsHandler(svc *services.SavedSearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		out, err := svc.ListAlerts(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func respondServiceError(c *gin.Context, err error) {
	var verr *aggregator.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: verr.Msg})
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal error"})
	}
}
