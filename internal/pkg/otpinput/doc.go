// Package otpinput models a one-time-code entry widget made of single-digit
// slots, without any rendering.
//
// The widget keeps one character per slot, tracks which slot has focus and
// reports the assembled value to the caller through OnChange and OnComplete.
// Hosts (a terminal, a test, a UI binding) translate their own key and paste
// events into calls on Input.
package otpinput
