package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
)

type UserHandler struct {
	svc port.UserService
}

func NewUserHandler(svc port.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	payload, ok := ValidatedJSON[domain.CreateUser](c)

	if !ok {
		return
	}

	user, err := h.svc.Create(c.Request.Context(), payload)

	if err != nil {
		SendInternalError(c, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, response.NewUserResponse(user))
}

type RootHandler struct {
	Logger *zap.Logger
}

func NewRootHandler(logger *zap.Logger) *RootHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RootHandler{Logger: logger}
}

func (h *RootHandler) Root(c *gin.Context) {
	h.Logger.Debug("Hello world endpoint called")

	c.String(http.StatusOK, "Hello, World!")
}
