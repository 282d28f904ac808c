package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"farmertwin/dto"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

const maxPushSubscriptionBytes = 16 << 10

// PushSubscribeHandler stores the browser's push descriptor as sent.
// Re-subscribing with an identical descriptor is a no-op.
func PushSubscribeHandler(c *gin.Context, push *usecase.PushRegistry) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPushSubscriptionBytes))
	if err != nil {
		utils.BadRequest(c, "Invalid subscription")
		return
	}

	if _, err := push.Add(json.RawMessage(body), c.Request.UserAgent()); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Status: "success"})
}

func VAPIDPublicKeyHandler(c *gin.Context, publicKey string) {
	utils.Success(c, dto.VAPIDKeyResponse{PublicKey: publicKey})
}
