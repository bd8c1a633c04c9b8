package events

// Event types follow the format: domain.action
const (
	EventTypeGroupCreated       = "chat.group_created"
	EventTypeMessageUndelivered = "message.undelivered"
)

// GroupCreatedPayload is published after a group chat is persisted.
type GroupCreatedPayload struct {
	ChatID       string   `json:"chat_id"`
	RoomID       string   `json:"room_id"`
	GroupName    string   `json:"group_name"`
	CreatedBy    string   `json:"created_by"`
	Participants []string `json:"participants"`
}

// MessageUndeliveredPayload is published when a direct message reached none
// of the recipient's connections.
type MessageUndeliveredPayload struct {
	ChatID  string `json:"chat_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Preview string `json:"preview"`
}
