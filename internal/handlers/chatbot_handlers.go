package handlers

import (
	"net/http"

	"pharmpal/internal/services"

	"github.com/labstack/echo/v4"
)

type ChatbotHandlers struct {
	assistant services.AssistantService
}

func NewChatbotHandlers(assistant services.AssistantService) *ChatbotHandlers {
	return &ChatbotHandlers{assistant: assistant}
}

type ChatbotRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatbotResponse struct {
	Response string `json:"response"`
}

// Query
//
//	@Summary	Ask the inventory assistant
//	@Tags		chatbot
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ChatbotRequest	true	"question"
//	@Success	200	{object}	ChatbotResponse
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	429	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/chatbot/query [post]
func (h *ChatbotHandlers) Query(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ChatbotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	answer, err := h.assistant.Ask(c.Request().Context(), userID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ChatbotResponse{Response: answer})
}
