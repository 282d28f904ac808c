package handler

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"farmertwin/dto"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// MaxFilenameLength caps the sanitized part of a stored upload name.
const MaxFilenameLength = 64

// SanitizeFilename keeps ASCII letters, digits, '_', '-' and '.', maps
// whitespace to '_' and drops any directory part and leading dots. Names
// longer than MaxFilenameLength are cut from the stem so the extension
// survives.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if len(name) <= MaxFilenameLength {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) >= MaxFilenameLength {
		return name[:MaxFilenameLength]
	}
	return name[:MaxFilenameLength-len(ext)] + ext
}

// ProfileFilename is the stored name of an upload: unique per user and
// second so browsers never serve a stale cached image.
func ProfileFilename(userID string, at time.Time, original string) string {
	return fmt.Sprintf("user_%s_%d_%s", userID, at.Unix(), SanitizeFilename(original))
}

func UploadProfileHandler(c *gin.Context, users *usecase.UserService, storage services.ProfileStorage) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "Unauthorized")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "No file part")
		return
	}
	if fh.Filename == "" {
		utils.BadRequest(c, "No selected file")
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExtensions[ext] || SanitizeFilename(fh.Filename) == "" {
		utils.BadRequest(c, "File type not allowed")
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.InternalError(c, "Failed to read upload")
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := ProfileFilename(user.UserID, time.Now().UTC(), fh.Filename)
	path, err := storage.Save(c.Request.Context(), name, contentType, f)
	if err != nil {
		utils.TrackError("storage", "profile_upload_failed")
		utils.HandleError(c, err)
		return
	}

	if err := users.SetProfileImage(c.Request.Context(), user.UserID, path); err != nil {
		if derr := storage.Delete(c.Request.Context(), name); derr != nil {
			utils.TrackError("storage", "profile_cleanup_failed")
			c.Error(derr)
		}
		utils.HandleError(c, err)
		return
	}

	utils.Success(c, dto.ProfileUploadResponse{
		Message:          "Profile image uploaded successfully",
		ProfileImagePath: path,
	})
}
