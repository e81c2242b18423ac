// Package phone normalizes and validates national (Iranian) mobile numbers.
//
// Users type numbers with Persian or Arabic-Indic digit glyphs as often as with
// ASCII digits, so every input goes through Normalize before IsMobile.
package phone
