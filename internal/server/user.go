package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 5 MiB is plenty for an avatar.
const maxAvatarSize = 5 << 20

func (s *Server) Profile(c *gin.Context) {
	user, err := s.userSvc.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		AbortWithError(c, newValidationError("avatar", "missing_file", "avatar file is required"))
		return
	}
	if header.Size > maxAvatarSize {
		AbortWithError(c, newValidationError("avatar", "file_too_large", "avatar file is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.userSvc.SaveAvatar(c.Request.Context(), currentUserID(c), header.Filename, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
