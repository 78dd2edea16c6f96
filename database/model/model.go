package model

import (
	"errors"
	"time"
)

var (
	ErrNoConfiguration = errors.New("database filename not set")
	ErrNotFound        = errors.New("not found")
	ErrPinMismatch     = errors.New("pin mismatch")
	ErrInvalidPassword = errors.New("invalid password")
)

// Media types of content and usage metrics.
const (
	MediaTypeAudio = "audio"
	MediaTypeVideo = "video"
)

// User represents an account owning one or more viewer profiles.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Username is the login name of the user.
	Username string
	// Password is the bcrypt-hashed password of the user.
	Password string
	// Created is the time the user was created.
	Created time.Time
	// Profiles owned by the user, populated on demand.
	Profiles []Profile
	// Subscriptions of the user, populated on demand.
	Subscriptions []Subscription
}

// Subscription represents one (possibly expired) subscription of a user.
type Subscription struct {
	ID        int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	Active    bool
	// Plan the subscription is on, populated on demand.
	Plan *Plan
}

// Plan describes what a subscription tier permits.
type Plan struct {
	ID          int64
	Name        string
	AllowsAudio bool
	AllowsVideo bool
}

// Profile is a viewer identity within a user account, gated by a PIN.
type Profile struct {
	ID int64
	// UserID is the owning user.
	UserID int64
	Name   string
	// Pin is the shared secret gating the profile. Stored and compared
	// as-is, it is a child-lock style gate, not a credential.
	Pin string
	// Preferences is an opaque JSON blob managed by the client.
	Preferences string
	// User is the owning user, populated on demand.
	User *User
}

// Content is a single playable media item. Read-only for this server.
type Content struct {
	ID          int64
	Title       string
	Description string
	// CoverArt is the cover image location of the item.
	CoverArt string
	// MediaType is either MediaTypeAudio or MediaTypeVideo.
	MediaType string
	URL       string
	Created   time.Time
}

// Playlist is an ordered set of content items owned by one profile.
type Playlist struct {
	ID        int64
	ProfileID int64
	Name      string
	Type      string
	Created   time.Time
	// Items of the playlist, populated on demand, in storage order.
	Items []PlaylistItem
}

// PlaylistItem associates a playlist with one content item.
// Order 1 marks the item whose cover art represents the playlist.
type PlaylistItem struct {
	PlaylistID int64
	ContentID  int64
	Order      int
	// Content referenced by the item, populated on demand.
	Content *Content
}

// UsageMetric is one logged playback event for a profile. Append-only.
type UsageMetric struct {
	ID              int64
	ProfileID       int64
	MediaType       string
	PlaybackSeconds int64
	Timestamp       time.Time
}

// RecommendationEdge is a precomputed directed association suggesting
// one content item given interest in another. Edges are not guaranteed
// unique or symmetric.
type RecommendationEdge struct {
	ID        int64
	OriginID  int64
	SuggestID int64
	// Suggested is the destination content, populated on demand.
	Suggested *Content
}
