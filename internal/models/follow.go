package models

import (
	"time"
)

// Follow is one directed edge of the social graph: FollowerID follows
// FolloweeID. Storing the relation as a single row keeps the followers and
// following views of the same edge symmetric by construction, and the unique
// pair index makes concurrent follow/unfollow of the same pair serialize at
// the database.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
