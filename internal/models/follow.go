package models

import "time"

// Follow represents a directed follow relationship. Follower and followed
// are the hex forms of the users' Mongo ObjectIDs; the post repository
// parses them back when assembling feeds.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID string    `json:"follower_id" gorm:"size:24;index;uniqueIndex:idx_follower_followed"`
	FollowedID string    `json:"followed_id" gorm:"size:24;index;uniqueIndex:idx_follower_followed"`
	CreatedAt  time.Time `json:"created_at"`
}
