package model

// Admin is the staff member behind a request, as asserted by the booking
// API's token.
//
// Fields:
//  ID      – user id (uuid) issued by the booking API.
//  Name    – display name, recorded in the audit trail.
//  Email   – login email.
//  IsAdmin – only admins may use this service.
type Admin struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
