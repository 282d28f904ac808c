package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"farmertwin/dto"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON binds a JSON body, treating an empty body as an empty
// object so the usecase can report the missing field.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		utils.TrackError("validation", "invalid_body")
		utils.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func AskTwinHandler(c *gin.Context, assistant *usecase.AssistantService) {
	var req dto.AskTwinRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	answer, err := assistant.Ask(c.Request.Context(), req.Doubt, req.Context, req.Language)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, answer)
}

func AnalyzeEmotionHandler(c *gin.Context, assistant *usecase.AssistantService) {
	var req dto.AnalyzeEmotionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	emotion, err := assistant.AnalyzeEmotion(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, emotion)
}

func WhatIfHandler(c *gin.Context, assistant *usecase.AssistantService) {
	var req dto.WhatIfRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	view, err := assistant.WhatIf(c.Request.Context(), req.Decision, req.Context, req.Language, req.Stress())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, view)
}

// CropImageHandler reads the multipart "image" field, at most maxBytes.
func CropImageHandler(c *gin.Context, assistant *usecase.AssistantService, maxBytes int64) {
	fh, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No image provided")
		return
	}
	if fh.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, &utils.Response{
			Error: fmt.Sprintf("image exceeds %d bytes", maxBytes),
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.InternalError(c, "Failed to read image")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		utils.InternalError(c, "Failed to read image")
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	analysis, note, err := assistant.AnalyzeCropImage(c.Request.Context(), data, mimeType, c.PostForm("language"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Success(c, dto.CropImageResponse{
		Success:  true,
		Analysis: analysis,
		Note:     note,
	})
}
