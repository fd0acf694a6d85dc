package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"go-board/internal/search"

	"github.com/gin-gonic/gin"
)

type searchParams struct {
	Q        string `form:"q"`
	Page     string `form:"page"`
	Username string `form:"username" binding:"max=32"`
}

// requester describes the caller for history bookkeeping.
func requester(c *gin.Context) search.Requester {
	who := search.Requester{
		Addr:      c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if id, ok := getUserIDFromContext(c); ok {
		who.UserID = &id
	}
	return who
}

func writeSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Please enter a search term"}})
	case errors.Is(err, search.ErrNotFound):
		notFound(c)
	default:
		log.Printf("[API] search request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Search failed"}})
	}
}

// GET /search?q=&page=&username=
func SearchHandler(svc *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params searchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid search parameters"}})
			return
		}
		page := 1
		if params.Page != "" {
			n, err := strconv.Atoi(params.Page)
			if err != nil {
				notFound(c)
				return
			}
			page = n
		}

		res, err := svc.Search(c.Request.Context(), search.Request{
			Query:    params.Q,
			Page:     page,
			Username: params.Username,
		}, requester(c))
		if err != nil {
			writeSearchError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// GET /search/suggest?q=
func SuggestHandler(svc *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := svc.Suggest(c.Request.Context(), c.Query("q"))
		if err != nil {
			writeSearchError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": values})
	}
}

// GET /search/history
func SearchHistoryHandler(svc *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *uint
		if id, ok := getUserIDFromContext(c); ok {
			userID = &id
		}
		items, err := svc.History(c.Request.Context(), userID)
		if err != nil {
			writeSearchError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"searches": items})
	}
}

// DELETE /search/history/:id
func DeleteSearchHistoryHandler(svc *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			notFound(c)
			return
		}
		var userID *uint
		if uid, ok := getUserIDFromContext(c); ok {
			userID = &uid
		}
		if err := svc.DeleteHistory(c.Request.Context(), userID, uint(id)); err != nil {
			writeSearchError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}
