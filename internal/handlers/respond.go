package handlers

import "github.com/gin-gonic/gin"

// Success responses share the {success, data?, message?, count?}
// envelope; failures go through the errors package helpers.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(c *gin.Context, status int, data any, count int) {
	c.JSON(status, gin.H{
		"success": true,
		"count":   count,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

func respondDataMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}
