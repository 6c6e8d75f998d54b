package content

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"media-platform/config"
	"media-platform/pkg/apperrors"
	"media-platform/pkg/logger"
)

// Free-text fields are stripped of markup before they hit the catalog.
var sanitizer = bluemonday.StrictPolicy()

func currentUserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

// CreateContentHandler adds a catalog item owned by the calling content
// manager.
func CreateContentHandler(c echo.Context) error {
	log := logger.Get().WithComponent("content").WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(UpsertRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid content payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}
	if err := req.Validate(); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			err.Error(),
		))
	}

	creatorID := currentUserID(c)
	id := uuid.New().String()
	now := time.Now()

	_, err := config.DB.Exec(`
		INSERT INTO contents (id, creator_id, type, title, description, tags,
			duration, audio_path, video_url, resolution, visible, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, creatorID, req.Type,
		sanitizer.Sanitize(req.Title), nullable(sanitizer.Sanitize(req.Description)),
		strings.Join(req.Tags, ","), req.Duration,
		nullable(req.AudioPath), nullable(req.VideoURL), nullable(req.Resolution),
		req.Visible, now, now)
	if err != nil {
		log.Error("Failed to insert content", err, logger.UserID(creatorID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("Content created", logger.ContentID(id), logger.UserID(creatorID))
	return apperrors.RespondWithCreated(c, map[string]string{"id": id})
}

// UpdateContentHandler replaces a catalog item. Only the owning creator may
// update it.
func UpdateContentHandler(c echo.Context) error {
	log := logger.Get().WithComponent("content").WithRequestID(logger.GetRequestIDFromContext(c))
	id := c.Param("id")

	req := new(UpsertRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}
	if err := req.Validate(); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			err.Error(),
		))
	}

	creatorID := currentUserID(c)
	res, err := config.DB.Exec(`
		UPDATE contents SET type = ?, title = ?, description = ?, tags = ?,
			duration = ?, audio_path = ?, video_url = ?, resolution = ?,
			visible = ?, updated_at = NOW()
		WHERE id = ? AND creator_id = ?
	`, req.Type, sanitizer.Sanitize(req.Title), nullable(sanitizer.Sanitize(req.Description)),
		strings.Join(req.Tags, ","), req.Duration,
		nullable(req.AudioPath), nullable(req.VideoURL), nullable(req.Resolution),
		req.Visible, id, creatorID)
	if err != nil {
		log.Error("Failed to update content", err, logger.ContentID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeContentNotFound,
			"Content not found.",
		))
	}

	log.Info("Content updated", logger.ContentID(id), logger.UserID(creatorID))
	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Content updated."})
}

// ListContentsHandler returns visible catalog items, optionally filtered by
// type or a title/tag search term.
func ListContentsHandler(c echo.Context) error {
	query := "SELECT * FROM contents WHERE visible = true"
	args := []interface{}{}

	if kind := strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))); kind == TypeAudio || kind == TypeVideo {
		query += " AND type = ?"
		args = append(args, kind)
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		query += " AND (title LIKE ? OR tags LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	query += " ORDER BY created_at DESC"

	var items []Content
	if err := config.DB.Select(&items, query, args...); err != nil {
		logger.Get().WithComponent("content").Error("Failed to list contents", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, items)
}

// GetContentHandler returns a single catalog item with its average rating.
func GetContentHandler(c echo.Context) error {
	id := c.Param("id")

	var item Content
	err := config.DB.Get(&item, "SELECT * FROM contents WHERE id = ? AND visible = true", id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeContentNotFound,
			"Content not found.",
		))
	}
	if err != nil {
		logger.Get().WithComponent("content").Error("Failed to fetch content", err, logger.ContentID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	var average sql.NullFloat64
	if err := config.DB.Get(&average, "SELECT AVG(score) FROM content_ratings WHERE content_id = ?", id); err != nil {
		logger.Get().WithComponent("content").Error("Failed to fetch rating average", err, logger.ContentID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, map[string]interface{}{
		"content":        item,
		"average_rating": average.Float64,
		"rated":          average.Valid,
	})
}

// AddFavoriteHandler marks a content item as a favorite of the caller.
// Re-adding an existing favorite is a no-op.
func AddFavoriteHandler(c echo.Context) error {
	log := logger.Get().WithComponent("content").WithRequestID(logger.GetRequestIDFromContext(c))
	contentID := c.Param("id")
	userID := currentUserID(c)

	var exists int
	if err := config.DB.Get(&exists, "SELECT COUNT(*) FROM contents WHERE id = ? AND visible = true", contentID); err != nil {
		log.Error("Failed to check content", err, logger.ContentID(contentID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if exists == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeContentNotFound,
			"Content not found.",
		))
	}

	_, err := config.DB.Exec(`
		INSERT IGNORE INTO content_favorites (user_id, content_id, created_at)
		VALUES (?, ?, NOW())
	`, userID, contentID)
	if err != nil {
		log.Error("Failed to add favorite", err, logger.ContentID(contentID), logger.UserID(userID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Added to favorites."})
}

// RemoveFavoriteHandler removes a favorite.
func RemoveFavoriteHandler(c echo.Context) error {
	log := logger.Get().WithComponent("content").WithRequestID(logger.GetRequestIDFromContext(c))
	contentID := c.Param("id")
	userID := currentUserID(c)

	_, err := config.DB.Exec(
		"DELETE FROM content_favorites WHERE user_id = ? AND content_id = ?",
		userID, contentID)
	if err != nil {
		log.Error("Failed to remove favorite", err, logger.ContentID(contentID), logger.UserID(userID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Removed from favorites."})
}

// ListFavoritesHandler returns the caller's favorites, newest first.
func ListFavoritesHandler(c echo.Context) error {
	userID := currentUserID(c)

	var items []Content
	err := config.DB.Select(&items, `
		SELECT c.* FROM contents c
		JOIN content_favorites f ON f.content_id = c.id
		WHERE f.user_id = ? AND c.visible = true
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		logger.Get().WithComponent("content").Error("Failed to list favorites", err, logger.UserID(userID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, items)
}

// RateContentHandler records a 1-5 score. A second rating by the same user
// replaces the first.
func RateContentHandler(c echo.Context) error {
	log := logger.Get().WithComponent("content").WithRequestID(logger.GetRequestIDFromContext(c))
	contentID := c.Param("id")
	userID := currentUserID(c)

	req := new(RatingRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}
	if req.Score < 1 || req.Score > 5 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Score must be between 1 and 5.",
		))
	}

	var exists int
	if err := config.DB.Get(&exists, "SELECT COUNT(*) FROM contents WHERE id = ? AND visible = true", contentID); err != nil {
		log.Error("Failed to check content", err, logger.ContentID(contentID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if exists == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeContentNotFound,
			"Content not found.",
		))
	}

	_, err := config.DB.Exec(`
		INSERT INTO content_ratings (user_id, content_id, score, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE score = VALUES(score), updated_at = NOW()
	`, userID, contentID, req.Score)
	if err != nil {
		log.Error("Failed to save rating", err, logger.ContentID(contentID), logger.UserID(userID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	var average sql.NullFloat64
	if err := config.DB.Get(&average, "SELECT AVG(score) FROM content_ratings WHERE content_id = ?", contentID); err != nil {
		log.Error("Failed to fetch rating average", err, logger.ContentID(contentID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, map[string]interface{}{
		"average_rating": average.Float64,
	})
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
