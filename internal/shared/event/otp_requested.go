package event

import "time"

const OtpRequestedDestination string = "identity_otp_requested"
const OtpRequestedConsumerNotification string = "identity_otp_requested_notification"

type OtpRequestedMessage struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
