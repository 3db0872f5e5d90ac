package models

import "time"

// ContactStatusPending is the initial status of a new inquiry.
const ContactStatusPending = "pending"

// Contact is a support/sales inquiry submitted through the public form.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
