package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/gateway"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// respondError maps the gateway error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gateway.ErrAuthRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, gateway.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gateway.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, gateway.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, gateway.ErrTransient):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error(), "success": false})
}
