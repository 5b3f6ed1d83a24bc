package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avaraper/calily-backend/internal/http/response"
	"github.com/avaraper/calily-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetCurrentUser(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "user_not_found", err)
		return
	}
	response.RespondOK(c, user)
}

func (uh *UserHandler) GetAvatar(c *gin.Context) {
	png, err := uh.userService.GetAvatarPNG(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "avatar_not_found", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (uh *UserHandler) SetAvatar(c *gin.Context) {
	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, 10*1024*1024))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	if err := uh.userService.SetAvatarFromImage(c.Request.Context(), raw); err != nil {
		response.RespondError(c, http.StatusBadRequest, "avatar_update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
