package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamlog/backend/internal/middleware"
	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	conversations, err := h.chatService.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("[ListConversations] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list conversations"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(conversations))
}

// StartConversation returns the existing conversation with the partner or
// creates one.
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	userName := middleware.GetUserName(r.Context())

	var req models.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	conversationID, err := h.chatService.GetOrCreateConversation(r.Context(), userID, userName, req.PartnerUID, req.PartnerName)
	if err != nil {
		log.Printf("[StartConversation] user=%s partner=%s error=%v", userID, req.PartnerUID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to start conversation"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"conversation_id": conversationID}))
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	conversation, err := h.chatService.GetConversation(r.Context(), conversationID)
	if err != nil {
		log.Printf("[GetConversation] conversation=%s error=%v", conversationID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get conversation"))
		return
	}
	if conversation == nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(conversation))
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	messages, err := h.chatService.ListMessages(r.Context(), conversationID)
	if err != nil {
		log.Printf("[ListMessages] conversation=%s error=%v", conversationID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list messages"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(messages))
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	userName := middleware.GetUserName(r.Context())
	conversationID := chi.URLParam(r, "conversationId")

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	message, err := h.chatService.SendMessage(r.Context(), conversationID, userID, userName, req.Text)
	if err != nil {
		if err == services.ErrConversationNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Conversation not found"))
			return
		}
		log.Printf("[SendMessage] conversation=%s user=%s error=%v", conversationID, userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(message))
}
