package domain

type FriendStatusType string

const (
	FriendActive   FriendStatusType = "active"
	FriendInactive FriendStatusType = "inactive"
)

type FriendStatus struct {
	Type     FriendStatusType `json:"type"`
	HoursAgo int              `json:"hoursAgo,omitempty"`
}

type Friend struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatar"`
	Status    FriendStatus `json:"status"`
}
