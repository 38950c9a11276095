package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// ChatPostRequest posts one message into a room.
type ChatPostRequest struct {
	Room string `json:"room" binding:"required"`
	Body string `json:"body" binding:"required"`
}

// ChatHistoryResponse is a paginated page of messages, newest first.
type ChatHistoryResponse struct {
	Messages   any        `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// PostChatMessage godoc
// @ID          postChatMessage
// @Summary     Post a message to a chat room
// @Description Room access follows the sender's role. Staff rooms are
// @Description kitchen, pos, and admin; customers get a private room shared
// @Description with staff.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ChatPostRequest  true  "Message"
// @Success     201  {object}  domain.ChatMessage
// @Failure     403  {object}  handlers.ErrorResponse "Not a member of the room"
// @Router      /chat/messages [post]
func (h *Handlers) PostChatMessage(c *gin.Context) {
	var req ChatPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room and body are required")
		return
	}
	sender, found := h.currentUser(c)
	if !found {
		return
	}
	msg, err := h.chatSvc.Post(c.Request.Context(), req.Room, sender, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not a member of this room")
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message body is empty")
		case errors.Is(err, services.ErrMessageTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message body is too long")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not post message")
		}
		return
	}
	ok(c, http.StatusCreated, msg)
}

// ChatHistory godoc
// @ID          chatHistory
// @Summary     Page through a room's message history
// @Tags        Chat
// @Produce     json
// @Param       room       query  string  true   "Room name"
// @Param       page       query  int     false  "Page, 1-based"
// @Param       page_size  query  int     false  "Page size, max 100"
// @Success     200  {object}  handlers.ChatHistoryResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /chat/messages [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	sender, found := h.currentUser(c)
	if !found {
		return
	}
	page, pageSize := clampPagination(c)
	msgs, total, err := h.chatSvc.History(c.Request.Context(), c.Query("room"), sender.Role, sender.ID, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrRoomForbidden) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not a member of this room")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load history")
		return
	}
	ok(c, http.StatusOK, ChatHistoryResponse{Messages: msgs, Pagination: paginate(page, pageSize, total)})
}
