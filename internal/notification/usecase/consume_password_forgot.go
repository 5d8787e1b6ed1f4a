package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/keyfold/keyfold/internal/pkg/mail"
)

const passwordForgotSubject = "Reset your password"

const passwordForgotBody = `<p>Hello,</p>
<p>We received a request to reset your {{.app_name}} password.</p>
<p><a href="{{.reset_url}}">Reset your password</a></p>
<p>The link expires shortly. If you did not request it, you can ignore this email.</p>
<p>&copy; {{.year}} {{.app_name}}</p>`

type ConsumePasswordForgotInput struct {
	UserID int64  `validate:"required,gt=0"`
	Email  string `validate:"required,email"`
	Token  string `validate:"required"`
}

func (s *Usecase) ConsumePasswordForgot(ctx context.Context, in ConsumePasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordForgot")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid password forgot payload", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["reset_url"] = s.cfg.GetString("app.web") + "/reset-password?token=" + url.QueryEscape(in.Token)

	body, err := s.renderTemplate("password_forgot", passwordForgotBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render reset email body", "email", in.Email, "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  passwordForgotSubject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send reset email", "email", in.Email, "error", err)
		return err
	}

	return nil
}
