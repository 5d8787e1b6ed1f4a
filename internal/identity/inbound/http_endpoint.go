package inbound

import (
	"github.com/keyfold/keyfold/internal/identity/usecase"
	"github.com/keyfold/keyfold/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration, authentication and
// password recovery workflows.
type HTTPEndpoint struct {
	uc uc
}

// OtpRequest issues a one-time code for an email address. The code is
// delivered out of band; the response never carries it.
func (h *HTTPEndpoint) OtpRequest(r *router.Request) (any, error) {
	var req OtpRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OtpRequest(r.Context(), usecase.OtpRequestInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return OtpRequestResponse{}, nil
}

// OtpVerify checks a one-time code and returns a short-lived proof token for
// use with Register.
func (h *HTTPEndpoint) OtpVerify(r *router.Request) (any, error) {
	var req OtpVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpVerify(r.Context(), usecase.OtpVerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return OtpVerifyResponse{OtpToken: resp.OtpToken}, nil
}

// Register creates an account for a verified email and returns a session token.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		OtpToken: req.OtpToken,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserID: resp.UserID, Email: resp.Email, AccessToken: resp.AccessToken}, nil
}

// Login authenticates a user and returns a session token.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{UserID: resp.UserID, Email: resp.Email, AccessToken: resp.AccessToken}, nil
}

// PasswordForgot starts password recovery. The response is identical whether
// or not the email is registered.
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if _, err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset redeems a reset token and sets a new password.
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		ResetToken:  req.ResetToken,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// Profile returns the authenticated user's account details.
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		UserID:     resp.UserID,
		Email:      resp.Email,
		IsVerified: resp.IsVerified,
		CreatedAt:  resp.CreatedAt,
	}, nil
}
