package inbound

import "time"

type OtpRequestRequest struct {
	Email string `json:"email"`
}

type OtpRequestResponse struct{}

func (OtpRequestResponse) Message() string {
	return "We have sent a verification code to your email."
}

type OtpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type OtpVerifyResponse struct {
	OtpToken string `json:"otp_token"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OtpToken string `json:"otp_token"`
}

type RegisterResponse struct {
	UserID      int64  `json:"user_id,string"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID      int64  `json:"user_id,string"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that email exists, we have sent a password reset link."
}

type PasswordResetRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Your password has been reset. You can now sign in."
}

type ProfileResponse struct {
	UserID     int64     `json:"user_id,string"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}
