// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// the time package directly. Login flows schedule a redirect after a short
// delay and tick a resend countdown every second; a fake Clocker lets tests
// fire both deterministically.
package clock
