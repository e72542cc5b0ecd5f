package models

import (
	"time"

	"github.com/google/uuid"
)

// Tone is the writing style requested for a generated email
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneFunny        Tone = "funny"
	ToneCasual       Tone = "casual"
	ToneExcited      Tone = "excited"
	ToneProfessional Tone = "professional"
	ToneWitty        Tone = "witty"
	ToneLuxury       Tone = "luxury"
	ToneBold         Tone = "bold"
	ToneDramatic     Tone = "dramatic"
	ToneMusculine    Tone = "musculine" // spelling kept for existing clients
	ToneUrgent       Tone = "urgent"
)

// DefaultTone is used when a generation request names no tone
const DefaultTone = ToneProfessional

// Tones lists every accepted tone in display order
var Tones = []Tone{
	ToneFriendly,
	ToneFunny,
	ToneCasual,
	ToneExcited,
	ToneProfessional,
	ToneWitty,
	ToneLuxury,
	ToneBold,
	ToneDramatic,
	ToneMusculine,
	ToneUrgent,
}

// Valid reports whether t is one of the accepted tones
func (t Tone) Valid() bool {
	for _, known := range Tones {
		if t == known {
			return true
		}
	}
	return false
}

// Allowed length range for a generated email
const (
	MinEmailLength = 50
	MaxEmailLength = 800
)

// Email represents a generated email and the parameters it was generated from.
// Only IsFavorite changes after the record is persisted.
type Email struct {
	ID             uuid.UUID `json:"_id"`
	Purpose        string    `json:"purpose"`
	SubjectLine    string    `json:"subjectLine"`
	Recipients     string    `json:"recipients"`
	Senders        string    `json:"senders"`
	MaxLength      int       `json:"maxLength"`
	Tone           Tone      `json:"tone"`
	GeneratedEmail string    `json:"generatedEmail"`
	CreatedAt      time.Time `json:"createdAt"`
	IsFavorite     bool      `json:"isFavorite"`
	UserID         uuid.UUID `json:"userId"`
}
