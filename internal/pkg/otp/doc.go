// Package otp provides time-based one-time passwords with an hour-long time
// step, used to verify ownership of an email address during registration.
package otp
