package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryLimit reads ?limit= clamped to [1, max]; missing or invalid values give def
func QueryLimit(c *gin.Context, def, max int) int {
	n := QueryInt(c, "limit", def)
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// ParamID returns a path parameter, or false if it is blank
func ParamID(c *gin.Context, key string) (string, bool) {
	v := c.Param(key)
	return v, v != ""
}
