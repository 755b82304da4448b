package handler

import (
	"net/http"
	"strconv"

	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/repository"

	"github.com/gin-gonic/gin"
)

// pageFromQuery reads ?page= and ?limit=; bad values fall back to defaults.
func pageFromQuery(c *gin.Context) repository.Page {
	number, size := 1, repository.DefaultPageSize
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			number = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return repository.NewPage(number, size)
}

// recipesLimit reads ?recipes_limit=; 0 means no limit.
func recipesLimit(c *gin.Context) int {
	if v := c.Query("recipes_limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}

// pathID parses the :id parameter, writing a 404 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// viewerID is the authenticated user id, or 0 for anonymous requests.
func viewerID(c *gin.Context) int64 {
	id, _ := middleware.UserID(c)
	return id
}

func boolQuery(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}
