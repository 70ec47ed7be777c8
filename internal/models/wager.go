package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Position disambiguates which two-digit prize tier a guess targets.
// It only carries meaning for two-digit numbers; longer guesses use PositionNone.
type Position string

const (
	PositionNone   Position = "NONE"
	PositionTop    Position = "TOP"
	PositionBottom Position = "BOTTOM"
)

// Wager represents one user's single guess for a round.
// At most one wager may exist per (userId, roundId); the wagers collection
// carries a unique index on that pair.
type Wager struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"userId" json:"userId"`
	DisplayLabel string             `bson:"displayLabel,omitempty" json:"displayLabel,omitempty"`
	Number       string             `bson:"number" json:"number"`
	Position     Position           `bson:"position" json:"position"`
	RoundID      string             `bson:"roundId" json:"roundId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
