package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

type DraftController struct {
	Drafts *gateway.DraftService
}

func NewDraftController(db *gorm.DB) *DraftController {
	return &DraftController{Drafts: gateway.NewDraftService(db)}
}

func (dc *DraftController) List(c *gin.Context) {
	user := utils.GetUser(c)
	drafts, err := dc.Drafts.List(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: drafts})
}

func (dc *DraftController) Create(c *gin.Context) {
	user := utils.GetUser(c)

	var input struct {
		PriceTier int `json:"price_tier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	draft, err := dc.Drafts.Create(user.UserID, input.PriceTier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: draft})
}

func (dc *DraftController) Get(c *gin.Context) {
	user := utils.GetUser(c)
	draft, err := dc.Drafts.Get(user.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: draft})
}

func (dc *DraftController) GetPreview(c *gin.Context) {
	user := utils.GetUser(c)
	preview, err := dc.Drafts.GetPreview(user.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: preview})
}

func (dc *DraftController) Update(c *gin.Context) {
	user := utils.GetUser(c)

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := dc.Drafts.Update(user.UserID, c.Param("id"), fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Draft updated"})
}

// SaveComplete replaces the whole day/stop subtree in one call.
func (dc *DraftController) SaveComplete(c *gin.Context) {
	user := utils.GetUser(c)

	var input gateway.SaveCompleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	draft, err := dc.Drafts.SaveComplete(user.UserID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: draft})
}

func (dc *DraftController) Delete(c *gin.Context) {
	user := utils.GetUser(c)
	if err := dc.Drafts.Delete(user.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Draft deleted"})
}

func (dc *DraftController) Publish(c *gin.Context) {
	user := utils.GetUser(c)
	itineraryID, err := dc.Drafts.Publish(user.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"itinerary_id": itineraryID},
		Message: "Itinerary published",
	})
}

func (dc *DraftController) SaveCharacteristics(c *gin.Context) {
	user := utils.GetUser(c)

	var row models.DraftCharacteristics
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := dc.Drafts.SaveCharacteristics(user.UserID, c.Param("id"), row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Characteristics saved"})
}

func (dc *DraftController) SaveTransportation(c *gin.Context) {
	user := utils.GetUser(c)

	var row models.DraftTransportation
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := dc.Drafts.SaveTransportation(user.UserID, c.Param("id"), row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Transportation saved"})
}

func (dc *DraftController) SaveAccommodation(c *gin.Context) {
	user := utils.GetUser(c)

	var row models.DraftAccommodation
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := dc.Drafts.SaveAccommodation(user.UserID, c.Param("id"), row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Accommodation saved"})
}

func (dc *DraftController) SaveTravelTips(c *gin.Context) {
	user := utils.GetUser(c)

	var row models.DraftTravelTips
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := dc.Drafts.SaveTravelTips(user.UserID, c.Param("id"), row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Travel tips saved"})
}

func (dc *DraftController) GetEssentials(c *gin.Context) {
	user := utils.GetUser(c)
	essentials, err := dc.Drafts.GetAllEssentials(user.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: essentials})
}
