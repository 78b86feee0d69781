package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

// UploadController handles cover images for drafts: direct multipart uploads,
// presigned PUT URLs for browser uploads, and deletion.
type UploadController struct {
	Storage *gateway.StorageService
	Drafts  *gateway.DraftService
}

func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{
		Storage: gateway.NewStorageService(),
		Drafts:  gateway.NewDraftService(db),
	}
}

// UploadCover accepts a multipart file and stores it as the draft's cover.
func (uc *UploadController) UploadCover(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		respondError(c, gateway.ErrAuthRequired)
		return
	}
	draftID := c.Param("id")

	// Ownership check before touching the bucket.
	if _, err := uc.Drafts.Get(user.UserID, draftID); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "success": false})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file", "success": false})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := uc.Storage.UploadCoverImage(c.Request.Context(), user.UserID, draftID,
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uc.Drafts.Update(user.UserID, draftID, map[string]interface{}{"cover_image_url": url}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"cover_image_url": url},
	})
}

// PresignCover hands back a one-hour PUT URL so the browser uploads directly.
func (uc *UploadController) PresignCover(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		respondError(c, gateway.ErrAuthRequired)
		return
	}
	draftID := c.Param("id")

	if _, err := uc.Drafts.Get(user.UserID, draftID); err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		FileName    string `json:"file_name" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	uploadURL, fileURL, key, err := uc.Storage.PresignCoverUpload(c.Request.Context(),
		user.UserID, draftID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"upload_url": uploadURL,
			"file_url":   fileURL,
			"key":        key,
		},
	})
}

// ConfirmCover records a presign-uploaded cover URL on the draft.
func (uc *UploadController) ConfirmCover(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		respondError(c, gateway.ErrAuthRequired)
		return
	}
	draftID := c.Param("id")

	var req struct {
		FileURL string `json:"file_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := uc.Drafts.Update(user.UserID, draftID, map[string]interface{}{"cover_image_url": req.FileURL}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true})
}

// DeleteCover removes the object and clears the draft's cover URL.
func (uc *UploadController) DeleteCover(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		respondError(c, gateway.ErrAuthRequired)
		return
	}
	draftID := c.Param("id")

	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := uc.Storage.DeleteCover(c.Request.Context(), user.UserID, req.Key); err != nil {
		respondError(c, err)
		return
	}

	if err := uc.Drafts.Update(user.UserID, draftID, map[string]interface{}{"cover_image_url": ""}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true})
}
