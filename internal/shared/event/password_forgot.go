package event

const PasswordForgotDestination string = "identity_password_forgot"
const PasswordForgotConsumerNotification string = "identity_password_forgot_notification"

type PasswordForgotMessage struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}
