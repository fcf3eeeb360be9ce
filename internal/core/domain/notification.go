package domain

// Notification is owned by the backend; the client only reads it and asks
// the backend to flip IsRead.
type Notification struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	IsRead    bool       `json:"is_read"`
}

// NotificationList is the body of GET /api/notifications.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
}

// Unread returns the unread notifications in their original order.
func (l NotificationList) Unread() []Notification {
	var out []Notification
	for _, n := range l.Notifications {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}
