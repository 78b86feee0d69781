package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/preview"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

type ItineraryController struct {
	Itineraries *gateway.ItineraryService
	Wishlist    *gateway.WishlistService
}

func NewItineraryController(db *gorm.DB) *ItineraryController {
	return &ItineraryController{
		Itineraries: gateway.NewItineraryService(db),
		Wishlist:    gateway.NewWishlistService(db),
	}
}

// Feed is the marketplace listing with filters, sorting and pagination.
func (ic *ItineraryController) Feed(c *gin.Context) {
	var filters gateway.ItineraryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	page, err := ic.Itineraries.List(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    page.Items,
		Pagination: &PaginationMeta{
			CurrentPage: page.CurrentPage,
			PageSize:    page.PageSize,
			TotalItems:  page.TotalItems,
			TotalPages:  page.TotalPages,
		},
	})
}

// Get returns the itinerary projected for the viewer: creators see their own
// listing in full, everyone else gets the locked buyer view. Every hit bumps
// the view counter.
func (ic *ItineraryController) Get(c *gin.Context) {
	detail, err := ic.Itineraries.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ic.Itineraries.IncrementView(detail.ID); err != nil {
		log.Printf("view count bump failed for %s: %v", detail.ID, err)
	}

	ctx := preview.ContextView
	if user := utils.GetUser(c); user != nil && user.UserID == detail.CreatorID {
		ctx = preview.ContextEdit
	}

	record := preview.FromItinerary(detail)
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"itinerary":  detail.Itinerary,
			"card":       preview.RenderCard(record, preview.CardFeed),
			"projection": preview.Project(record, ctx),
		},
	})
}

// Card renders the itinerary's marketplace card for a given context.
func (ic *ItineraryController) Card(c *gin.Context) {
	detail, err := ic.Itineraries.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := preview.CardContext(c.DefaultQuery("context", string(preview.CardFeed)))
	switch ctx {
	case preview.CardFeed, preview.CardPreview, preview.CardDashboard:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown card context", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    preview.RenderCard(preview.FromItinerary(detail), ctx),
	})
}
