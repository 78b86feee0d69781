package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

type WishlistController struct {
	Wishlist *gateway.WishlistService
	Registry *SessionRegistry
}

func NewWishlistController(db *gorm.DB, registry *SessionRegistry) *WishlistController {
	return &WishlistController{
		Wishlist: gateway.NewWishlistService(db),
		Registry: registry,
	}
}

func (wc *WishlistController) Add(c *gin.Context) {
	user := utils.GetUser(c)

	var input struct {
		ItineraryID string `json:"itinerary_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := wc.Wishlist.Add(user.UserID, input.ItineraryID); err != nil {
		respondError(c, err)
		return
	}

	wc.mirror(user.UserID)
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Message: "Added to wishlist"})
}

func (wc *WishlistController) Remove(c *gin.Context) {
	user := utils.GetUser(c)

	if err := wc.Wishlist.Remove(user.UserID, c.Param("itineraryId")); err != nil {
		respondError(c, err)
		return
	}

	wc.mirror(user.UserID)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Removed from wishlist"})
}

func (wc *WishlistController) List(c *gin.Context) {
	user := utils.GetUser(c)

	items, err := wc.Wishlist.List(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: items})
}

func (wc *WishlistController) Check(c *gin.Context) {
	user := utils.GetUser(c)

	wished, err := wc.Wishlist.Check(user.UserID, c.Param("itineraryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"wishlisted": wished}})
}

// mirror pushes the wishlist into the user's live authoring session so the
// state store (and through it the scratch cache) stays current.
func (wc *WishlistController) mirror(userID string) {
	s := wc.Registry.Peek(userID)
	if s == nil {
		return
	}

	items, err := wc.Wishlist.List(userID)
	if err != nil {
		return
	}
	ids := make([]interface{}, len(items))
	for i, item := range items {
		ids[i] = item.ItineraryID
	}
	s.State.Set("wishlist", ids, false)
	s.Bus.Emit(events.TopicWishlistChanged, ids)
}
