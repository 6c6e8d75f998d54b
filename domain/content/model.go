package content

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Content kinds
const (
	TypeAudio = "AUDIO"
	TypeVideo = "VIDEO"
)

// Resolutions accepted for video items
var validResolutions = map[string]bool{
	"720p":  true,
	"1080p": true,
	"4K":    true,
}

var ErrInvalidContent = errors.New("invalid content")

// Content is a catalog item. Audio items carry a file path, video items a
// URL and optionally a resolution.
type Content struct {
	ID          string         `db:"id" json:"id"`
	CreatorID   string         `db:"creator_id" json:"creator_id"`
	Type        string         `db:"type" json:"type"`
	Title       string         `db:"title" json:"title"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Tags        string         `db:"tags" json:"tags"`
	Duration    int            `db:"duration" json:"duration"`
	AudioPath   sql.NullString `db:"audio_path" json:"audio_path,omitempty"`
	VideoURL    sql.NullString `db:"video_url" json:"video_url,omitempty"`
	Resolution  sql.NullString `db:"resolution" json:"resolution,omitempty"`
	Visible     bool           `db:"visible" json:"visible"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// UpsertRequest is the create/update payload. Tags travel as a list and are
// stored comma-joined.
type UpsertRequest struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Duration    int      `json:"duration"`
	AudioPath   string   `json:"audio_path"`
	VideoURL    string   `json:"video_url"`
	Resolution  string   `json:"resolution"`
	Visible     bool     `json:"visible"`
}

// RatingRequest carries a 1-5 score
type RatingRequest struct {
	Score int `json:"score"`
}

// Validate applies the catalog rules: type, title, at least one non-blank
// tag, a positive duration, and the type-specific source field.
func (r *UpsertRequest) Validate() error {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Title = strings.TrimSpace(r.Title)

	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidContent)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidContent)
	}

	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrInvalidContent)
	}
	r.Tags = tags

	switch r.Type {
	case TypeAudio:
		if strings.TrimSpace(r.AudioPath) == "" {
			return fmt.Errorf("%w: audio content requires audio_path", ErrInvalidContent)
		}
	case TypeVideo:
		if strings.TrimSpace(r.VideoURL) == "" {
			return fmt.Errorf("%w: video content requires video_url", ErrInvalidContent)
		}
		if r.Resolution != "" && !validResolutions[r.Resolution] {
			return fmt.Errorf("%w: resolution must be 720p, 1080p or 4K", ErrInvalidContent)
		}
	default:
		return fmt.Errorf("%w: type must be AUDIO or VIDEO", ErrInvalidContent)
	}

	return nil
}
