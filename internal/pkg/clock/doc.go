// Package clock provides a tiny time abstraction.
//
// Everything in the credential core that compares deadlines (OTP windows,
// token expiries, reset windows) reads time through the Clocker interface
// instead of calling time.Now() directly, so tests can travel in time with a
// fake clock.
package clock
