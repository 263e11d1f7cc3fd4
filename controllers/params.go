package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-backend/models"
)

// optionalDate parses s as a date; blank means absent.
func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	return optionalDate(c.Query(key))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Validation("%s must be an integer", key)
	}
	return n, nil
}

func pathInt(c *gin.Context, key string) (int, error) {
	n, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, models.Validation("%s must be an integer", key)
	}
	return n, nil
}
