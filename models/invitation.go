package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Invitation is one invited party. Its ID doubles as the public link
// token: whoever holds it may read and confirm the invitation.
type Invitation struct {
	ID          string     `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	FamilyName  string     `gorm:"not null;size:200" bson:"family_name" json:"family_name"`
	PartySize   int        `gorm:"not null" bson:"party_size" json:"party_size"`
	Confirmed   bool       `gorm:"not null;default:false" bson:"confirmed" json:"confirmed"`
	Status      Status     `gorm:"not null;size:20;default:open" bson:"status" json:"status"`
	ConfirmedAt *time.Time `bson:"confirmed_at,omitempty" json:"confirmed_at"`
	CreatedAt   time.Time  `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	Link        string     `gorm:"-" bson:"-" json:"link,omitempty"`
}

// NewInvitation returns an open invitation for the given party.
func NewInvitation(familyName string, partySize int) (*Invitation, error) {
	familyName = strings.TrimSpace(familyName)
	if familyName == "" {
		return nil, Validation("family_name is required")
	}
	if partySize < 1 {
		return nil, Validation("party_size must be a positive integer")
	}
	return &Invitation{
		FamilyName: familyName,
		PartySize:  partySize,
		Status:     StatusOpen,
	}, nil
}

// BeforeCreate assigns the UUID primary key, which is also the public
// identifier, before the single insert.
func (i *Invitation) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = StatusOpen
	}
	return nil
}

// CanConfirm evaluates the confirmation guard. A confirmed invitation
// reports ErrAlreadyConfirmed before a closed one reports ErrClosed.
func (i *Invitation) CanConfirm() error {
	if i.Confirmed {
		return ErrAlreadyConfirmed
	}
	if i.Status == StatusClosed {
		return ErrClosed
	}
	return nil
}
