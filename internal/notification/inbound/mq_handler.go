package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/keyfold/keyfold/internal/notification/usecase"
	"github.com/keyfold/keyfold/internal/pkg/instrument"
	"github.com/keyfold/keyfold/internal/pkg/messaging"
	"github.com/keyfold/keyfold/internal/pkg/uid"
	"github.com/keyfold/keyfold/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if v := msg.Header(keyOfCorrelationID); len(v) > 0 {
		return instrument.SetCorrelationID(ctx, string(v))
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpRequestedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OtpRequestedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp requested notification", "msg_body", string(msg.Body))

	var payload event.OtpRequestedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp requested notification", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOtpRequested(ctx, usecase.ConsumeOtpRequestedInput{
		Email:     payload.Email,
		Code:      payload.Code,
		ExpiresAt: payload.ExpiresAt.Format(time.RFC1123),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp requested", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PasswordForgotNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordForgotNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: password forgot notification", "msg_body", string(msg.Body))

	var payload event.PasswordForgotMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password forgot notification", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordForgot(ctx, usecase.ConsumePasswordForgotInput{
		UserID: payload.UserID,
		Email:  payload.Email,
		Token:  payload.ResetToken,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password forgot", "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}
