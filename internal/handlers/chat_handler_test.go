package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/services"
)

func newChatRouter(t *testing.T, uid, name string) chi.Router {
	t.Helper()
	svc, err := services.NewMemoryChatService(t.TempDir())
	require.NoError(t, err)
	handler := NewChatHandler(svc)

	r := chi.NewRouter()
	r.Use(authAs(uid, name))
	r.Get("/conversations", handler.ListConversations)
	r.Post("/conversations", handler.StartConversation)
	r.Get("/conversations/{conversationId}", handler.GetConversation)
	r.Get("/conversations/{conversationId}/messages", handler.ListMessages)
	r.Post("/conversations/{conversationId}/messages", handler.SendMessage)
	return r
}

func startConversation(t *testing.T, router chi.Router) string {
	t.Helper()
	body := bytes.NewBufferString(`{"partner_uid":"bob","partner_name":"Bob"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data := resp["data"].(map[string]any)
	id := data["conversation_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestStartConversationReturnsSameIDTwice(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")

	first := startConversation(t, router)
	second := startConversation(t, router)
	assert.Equal(t, first, second)
}

func TestStartConversationRejectsMissingPartner(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
}

func TestSendAndListMessages(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")
	id := startConversation(t, router)

	req := httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewBufferString(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	msg := resp["data"].(map[string]any)
	assert.Equal(t, "alice", msg["sender_uid"])
	assert.Equal(t, "hello", msg["text"])

	listReq := httptest.NewRequest(http.MethodGet, "/conversations/"+id+"/messages", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	listResp := decodeBody(t, listRec)
	messages := listResp["data"].([]any)
	require.Len(t, messages, 1)

	// The denormalized summary reflects the send.
	convReq := httptest.NewRequest(http.MethodGet, "/conversations/"+id, nil)
	convRec := httptest.NewRecorder()
	router.ServeHTTP(convRec, convReq)

	require.Equal(t, http.StatusOK, convRec.Code)
	convResp := decodeBody(t, convRec)
	conv := convResp["data"].(map[string]any)
	assert.Equal(t, "hello", conv["last_message"])
	assert.Equal(t, "alice", conv["last_message_sender_uid"])
}

func TestSendMessageUnknownConversation(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")

	req := httptest.NewRequest(http.MethodPost, "/conversations/no-such-id/messages", bytes.NewBufferString(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")
	id := startConversation(t, router)

	req := httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewBufferString(`{"text":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConversationNotFound(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")

	req := httptest.NewRequest(http.MethodGet, "/conversations/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListConversationsIncludesSummary(t *testing.T) {
	router := newChatRouter(t, "alice", "Alice")
	id := startConversation(t, router)

	sendReq := httptest.NewRequest(http.MethodPost, "/conversations/"+id+"/messages", bytes.NewBufferString(`{"text":"hello"}`))
	sendRec := httptest.NewRecorder()
	router.ServeHTTP(sendRec, sendReq)
	require.Equal(t, http.StatusCreated, sendRec.Code)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	conversations := resp["data"].([]any)
	require.Len(t, conversations, 1)
	conv := conversations[0].(map[string]any)
	assert.Equal(t, id, conv["id"])
	assert.Equal(t, "hello", conv["last_message"])
}
