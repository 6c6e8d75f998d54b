package user

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"media-platform/config"
	"media-platform/pkg/apperrors"
	"media-platform/pkg/logger"
	"media-platform/utils"
)

var emailPattern = regexp.MustCompile(`^[\p{L}0-9._%+-]+@[\p{L}0-9.-]+\.[A-Za-z]{2,}$`)

const birthDateLayout = "2006-01-02"

// RegisterHandler creates a new account. Content manager registrations
// additionally carry description, speciality and a content type; admins are
// never created through this endpoint.
func RegisterHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid registration payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Alias = strings.TrimSpace(req.Alias)

	for field, value := range map[string]string{
		"name":       req.Name,
		"surname":    req.Surname,
		"alias":      req.Alias,
		"email":      req.Email,
		"birth_date": req.BirthDate,
		"password":   req.Password,
	} {
		if value == "" {
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeMissingField,
				"Field '"+field+"' is required.",
			))
		}
	}

	if !emailPattern.MatchString(req.Email) {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeInvalidEmail,
			"Invalid email address.",
		))
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid birth date, expected YYYY-MM-DD.",
		))
	}

	if req.Password != req.ConfirmPassword {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Passwords do not match.",
		))
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodePasswordWeak,
			err.Error(),
		))
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = RoleUser
	}
	switch role {
	case RoleUser:
	case RoleContentManager:
		if req.Description == "" || req.Speciality == "" || req.ContentType == "" {
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeMissingField,
				"Content managers require description, speciality and content_type.",
			))
		}
		if req.ContentType != ContentTypeAudio && req.ContentType != ContentTypeVideo {
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeValidationFailed,
				"content_type must be AUDIO or VIDEO.",
			))
		}
	default:
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeInvalidRole,
			"Role must be USER or CONTENT_MANAGER.",
		))
	}

	var exists int
	err = config.DB.Get(&exists, "SELECT COUNT(*) FROM users WHERE email = ? OR alias = ?", req.Email, req.Alias)
	if err != nil {
		log.Error("Failed to check for existing account", err, logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if exists > 0 {
		return apperrors.RespondWithError(c, apperrors.NewForbidden(
			apperrors.ErrCodeResourceExists,
			"An account with that email or alias already exists.",
		))
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Error("Failed to hash password", err, logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	photo := req.Photo
	if photo == "" {
		photo = DefaultPhoto
	}

	id := uuid.New().String()
	now := time.Now()

	var vipSince interface{}
	if req.VIP {
		vipSince = now
	}

	_, err = config.DB.Exec(`
		INSERT INTO users (id, email, name, surname, alias, birth_date, password,
			vip, vip_since, photo, role, description, speciality, content_type,
			blocked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, false, ?, ?)
	`, id, req.Email, req.Name, req.Surname, req.Alias, birthDate, hashed,
		req.VIP, vipSince, photo, role,
		nullable(req.Description), nullable(req.Speciality), nullable(req.ContentType),
		now, now)
	if err != nil {
		log.Error("Failed to insert user", err, logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("User registered", logger.UserID(id), logger.Email(req.Email), logger.String("role", role))
	return apperrors.RespondWithCreated(c, UserResponse{
		ID:    id,
		Email: req.Email,
		Alias: req.Alias,
		Role:  role,
		VIP:   req.VIP,
	})
}

// LoginHandler authenticates with email and password and returns a JWT.
func LoginHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid login payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u User
	err := config.DB.Get(&u, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeInvalidCredentials,
			"Invalid email or password.",
		))
	}
	if err != nil {
		log.Error("Failed to fetch user for login", err, logger.Email(email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	if !utils.CheckPasswordHash(req.Password, u.Password) {
		log.Warn("Login with wrong password", logger.Email(email))
		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeInvalidCredentials,
			"Invalid email or password.",
		))
	}

	if u.Blocked {
		log.Warn("Login attempt on blocked account", logger.UserID(u.ID))
		return apperrors.RespondWithError(c, apperrors.NewForbidden(
			apperrors.ErrCodeAccountBlocked,
			"This account is blocked.",
		))
	}

	token, err := utils.GenerateJWT(u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("Failed to generate token", err, logger.UserID(u.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	log.Info("User logged in", logger.UserID(u.ID), logger.String("role", u.Role))
	return apperrors.RespondWithSuccess(c, LoginResponse{Token: token, User: u.toResponse()})
}

// CheckAliasHandler reports whether an alias is already taken. Used by the
// registration form for inline validation.
func CheckAliasHandler(c echo.Context) error {
	alias := strings.TrimSpace(c.Param("alias"))
	if alias == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeMissingField,
			"Path parameter 'alias' is required.",
		))
	}

	var count int
	if err := config.DB.Get(&count, "SELECT COUNT(*) FROM users WHERE alias = ?", alias); err != nil {
		logger.Get().WithComponent("user").Error("Failed to check alias", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, map[string]bool{"taken": count > 0})
}

// ListUsersHandler returns every regular account. Admin only.
func ListUsersHandler(c echo.Context) error {
	var users []User
	err := config.DB.Select(&users, "SELECT * FROM users WHERE role = ? ORDER BY created_at DESC", RoleUser)
	if err != nil {
		logger.Get().WithComponent("user").Error("Failed to list users", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].toResponse())
	}
	return apperrors.RespondWithSuccess(c, out)
}

// ListCreatorsHandler returns content manager accounts, optionally filtered
// by a name/alias search term and a blocked flag.
func ListCreatorsHandler(c echo.Context) error {
	query := "SELECT * FROM users WHERE role = ?"
	args := []interface{}{RoleContentManager}

	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		query += " AND (alias LIKE ? OR name LIKE ? OR surname LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	if blocked := c.QueryParam("blocked"); blocked == "true" || blocked == "false" {
		query += " AND blocked = ?"
		args = append(args, blocked == "true")
	}
	query += " ORDER BY alias ASC"

	var creators []User
	if err := config.DB.Select(&creators, query, args...); err != nil {
		logger.Get().WithComponent("user").Error("Failed to list creators", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	out := make([]UserResponse, 0, len(creators))
	for i := range creators {
		out = append(out, creators[i].toResponse())
	}
	return apperrors.RespondWithSuccess(c, out)
}

// UpdateCreatorHandler patches a content manager account. Only fields
// present in the payload are touched.
func UpdateCreatorHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	id := c.Param("id")

	req := new(UpdateCreatorRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailPattern.MatchString(normalized) {
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeInvalidEmail,
				"Invalid email address.",
			))
		}
		*req.Email = normalized
	}

	sets := []string{}
	args := []interface{}{}
	for column, value := range map[string]*string{
		"alias":   req.Alias,
		"name":    req.Name,
		"surname": req.Surname,
		"email":   req.Email,
		"photo":   req.Photo,
	} {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	if len(sets) == 0 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"No fields to update.",
		))
	}

	args = append(args, id, RoleContentManager)
	res, err := config.DB.Exec(
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at = NOW() WHERE id = ? AND role = ?",
		args...)
	if err != nil {
		log.Error("Failed to update creator", err, logger.UserID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeUserNotFound,
			"Creator not found.",
		))
	}

	log.Info("Creator updated", logger.UserID(id))
	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Creator updated."})
}

// BlockCreatorHandler blocks a content manager account.
func BlockCreatorHandler(c echo.Context) error {
	return setCreatorBlocked(c, true)
}

// UnblockCreatorHandler lifts a block.
func UnblockCreatorHandler(c echo.Context) error {
	return setCreatorBlocked(c, false)
}

func setCreatorBlocked(c echo.Context, blocked bool) error {
	log := logger.Get().WithComponent("user")
	id := c.Param("id")

	res, err := config.DB.Exec(
		"UPDATE users SET blocked = ?, updated_at = NOW() WHERE id = ? AND role = ?",
		blocked, id, RoleContentManager)
	if err != nil {
		log.Error("Failed to change creator block state", err, logger.UserID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeUserNotFound,
			"Creator not found.",
		))
	}

	log.Info("Creator block state changed", logger.UserID(id), logger.Bool("blocked", blocked))
	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Creator updated."})
}

// DeleteCreatorHandler removes a content manager account and its content.
func DeleteCreatorHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	id := c.Param("id")

	tx, err := config.DB.Beginx()
	if err != nil {
		log.Error("Failed to open transaction", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM contents WHERE creator_id = ?", id); err != nil {
		log.Error("Failed to delete creator content", err, logger.UserID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	res, err := tx.Exec("DELETE FROM users WHERE id = ? AND role = ?", id, RoleContentManager)
	if err != nil {
		log.Error("Failed to delete creator", err, logger.UserID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(
			apperrors.ErrCodeUserNotFound,
			"Creator not found.",
		))
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit creator deletion", err, logger.UserID(id))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("Creator deleted", logger.UserID(id))
	return apperrors.RespondWithSuccess(c, map[string]string{"message": "Creator deleted."})
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
