package entity

import "time"

type SMSDirection string

const (
	SMSDirectionInbound  SMSDirection = "inbound"
	SMSDirectionOutbound SMSDirection = "outbound"
)

type SMSMessage struct {
	ID            string       `json:"id" db:"id"`
	PhoneNumber   string       `json:"phone_number" db:"phone_number"`
	Direction     SMSDirection `json:"direction" db:"direction"`
	Body          string       `json:"body" db:"body"`
	MessageSID    string       `json:"message_sid,omitempty" db:"message_sid"`
	ApplicationID string       `json:"application_id,omitempty" db:"application_id"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}
