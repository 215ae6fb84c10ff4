package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/models"
)

// RegisterCategoryRoutes registers the routes for the category taxonomy with
// the RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCategories)
	r.GET("", GetCategories)
}

// CategoryGroup is the list of allowed categories for one transaction kind.
type CategoryGroup struct {
	Kind       models.Kind `json:"kind" example:"expense"`
	Categories []string    `json:"categories" example:"Food,Rent"`
}

type CategoryListResponse struct {
	Data  []CategoryGroup `json:"data"`                                           // The allowed categories, grouped by kind
	Error *string         `json:"error" example:"the specified kind is invalid"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategories(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get categories
// @Description	Returns the allowed categories per transaction kind. The taxonomy is fixed, categories cannot be created or deleted.
// @Tags			Categories
// @Produce		json
// @Success		200		{object}	CategoryListResponse
// @Failure		400		{object}	CategoryListResponse
// @Param			kind	query		string	false	"Limit the response to a single kind"
// @Router			/v1/categories [get]
func GetCategories(c *gin.Context) {
	kinds := []models.Kind{models.KindIncome, models.KindExpense, models.KindBorrowed, models.KindLent}

	if param := c.Query("kind"); param != "" {
		kind := models.Kind(param)
		if !kind.Valid() {
			e := models.ErrKindInvalid.Error()
			c.JSON(http.StatusBadRequest, CategoryListResponse{
				Error: &e,
			})
			return
		}

		kinds = []models.Kind{kind}
	}

	data := make([]CategoryGroup, 0, len(kinds))
	for _, kind := range kinds {
		data = append(data, CategoryGroup{
			Kind:       kind,
			Categories: models.Categories(kind),
		})
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}
