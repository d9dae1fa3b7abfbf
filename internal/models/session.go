package models

// Session is the per-client booking state: the cart plus the form fields
// collected before assembly. It lives for one booking session and is stored
// through the session repository under an opaque session ID.
type Session struct {
	ID         string        `json:"id"`
	Entries    []CartEntry   `json:"entries"`
	Name       string        `json:"name"`
	Phone      string        `json:"phone"`
	Removal    RemovalChoice `json:"removal"`
	ServiceID  string        `json:"service_id"`
	ActiveDate DateKey       `json:"active_date"`
}
