package recovery

// ForgotPasswordRequest is the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the reset-password payload
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is a generic message body
type MessageResponse struct {
	Message string `json:"message"`
}

// The forgot-password response never varies with account existence.
const forgotPasswordMessage = "If an account exists with this email, a recovery link has been sent."
