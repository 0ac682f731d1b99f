package model

import "time"

// ProfileKind is the kind of candidate background document
type ProfileKind string

const (
	ProfileKindCV          ProfileKind = "cv"
	ProfileKindExperience  ProfileKind = "experience"
	ProfileKindPersonality ProfileKind = "personality"
)

// ProfileDocument is one candidate background document (CV, a past
// experience write-up, or the personality profile). Text only: document
// format parsing happens upstream of this system.
type ProfileDocument struct {
	ID       string            `json:"id" bson:"_id,omitempty"`
	Kind     ProfileKind       `json:"kind" bson:"kind"`
	Text     string            `json:"text" bson:"text"`
	Metadata map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	AddedAt  time.Time         `json:"addedAt" bson:"addedAt"`
}
