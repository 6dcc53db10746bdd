package models

import "time"

// Conversation is a direct-message thread between exactly two members.
// ParticipantUIDs is kept sorted so the pair can be looked up by equality.
// The last-message fields are a denormalized summary maintained by
// sequential writes; they can briefly lag the messages themselves.
type Conversation struct {
	ID               string            `json:"id"`
	ParticipantUIDs  []string          `json:"participant_uids"`
	ParticipantNames map[string]string `json:"participant_names"`
	LastMessage      string            `json:"last_message"`
	LastMessageAt    time.Time         `json:"last_message_at"`
	LastMessageUID   string            `json:"last_message_sender_uid"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Message lives under exactly one conversation.
type Message struct {
	ID         string    `json:"id"`
	SenderUID  string    `json:"sender_uid"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type StartConversationRequest struct {
	PartnerUID  string `json:"partner_uid"`
	PartnerName string `json:"partner_name"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (r *StartConversationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.PartnerUID == "" {
		errors["partner_uid"] = "Partner UID is required"
	}
	if r.PartnerName == "" {
		errors["partner_name"] = "Partner name is required"
	}

	return errors
}

func (r *SendMessageRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Text == "" {
		errors["text"] = "Message text is required"
	}

	return errors
}
