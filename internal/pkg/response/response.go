// Package response holds the JSON envelope helpers used by every handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated admin list responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type pagedResponse struct {
	Success    bool        `json:"success"`
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response with a single item.
func OK(c *gin.Context, item interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// Items sends a 200 response with a list payload.
func Items(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// ItemsDegraded sends a 200 response with an empty list and an error note, so
// public pages never hard-fail on a content-fetch error.
func ItemsDegraded(c *gin.Context, note string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "items": []interface{}{}, "note": note})
}

// Created sends a 201 response with the stored item.
func Created(c *gin.Context, item interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

// Message sends a 200 response that carries only a confirmation message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Paged sends a paginated list response.
func Paged(c *gin.Context, items interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{Success: true, Items: items, Pagination: pagination})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "method not allowed"})
}

// StoreUnavailable sends a 503 error response for write-path store failures.
// The client-visible message stays generic; detail belongs in the server log.
func StoreUnavailable(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage temporarily unavailable"})
}

// InternalError sends a 500 error response with a generic message.
func InternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
}
