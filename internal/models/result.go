package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result represents the single published outcome for a round.
// Digits3, Digits2Top and Digits2Bottom are always derived from Digits4 at
// creation time and are never entered independently.
type Result struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoundID       string             `bson:"roundId" json:"roundId"`
	Digits4       string             `bson:"digits4" json:"digits4"`
	Digits3       string             `bson:"digits3" json:"digits3"`
	Digits2Top    string             `bson:"digits2Top" json:"digits2Top"`
	Digits2Bottom string             `bson:"digits2Bottom" json:"digits2Bottom"`
	IsPublished   bool               `bson:"isPublished" json:"isPublished"`
	AnnouncedAt   time.Time          `bson:"announcedAt,omitempty" json:"announcedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
