package handler

import (
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

const serviceName = "farmer-digital-twin"

func HealthHandler(c *gin.Context, broadcaster *usecase.Broadcaster) {
	utils.Success(c, gin.H{
		"status":      "healthy",
		"service":     serviceName,
		"cpu_percent": utils.GetCPUUsage(c.Request.Context()),
		"subscribers": broadcaster.Subscribers(),
	})
}
