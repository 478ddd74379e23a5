package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mention-radar/aggregator"
	"mention-radar/cmd/api/dto"
	"mention-radar/cmd/api/services"
)

// SearchHandler godoc
// @Summary      Aggregate mentions across platforms
// @Description  Fans out the query to every requested platform, merges the results and returns scored, sorted posts with a summary
// @Tags         search
// @Accept       json
// @Param        request  body  dto.SearchRequestDTO  true  "Search request"
// @Produce      json
// @Success      200  {object}  dto.SearchResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /search [post]
func SearchHandler(svc *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.SearchRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			// 바디 파싱 실패만 서버 에러로 처리한다. 플랫폼 실패는 모두
			// warnings 로 흡수되므로 여기로 오지 않는다.
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed to parse request body"})
			return
		}

		resp, err := svc.Search(c.Request.Context(), in)
		if err != nil {
			var verr *aggregator.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: verr.Msg})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
