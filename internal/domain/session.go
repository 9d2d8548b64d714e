package domain

import "time"

// SessionParticipant is one identity's final score inside a closed room.
type SessionParticipant struct {
	Identity Identity `bson:"_id" json:"identity"`
	Score    int      `bson:"score" json:"score"`
}

// Session is the durable record of a closed room. Written exactly once
// when the last participant leaves; immutable thereafter. The document
// id is the room's creation timestamp.
type Session struct {
	ID           time.Time            `bson:"_id" json:"id"`
	Teacher      Identity             `bson:"teacher" json:"teacher"`
	Participants []SessionParticipant `bson:"participants" json:"participants"`
}
