package otpinput

import (
	"strings"

	"github.com/samber/lo"
	"github.com/tabesh/tabesh-auth/internal/pkg/phone"
)

// DefaultLength is used when Options.Length is not positive.
const DefaultLength = 5

// Direction is the text direction the slots are laid out in.
type Direction int

const (
	// DirectionLTR lays slot 0 out on the left.
	DirectionLTR Direction = iota
	// DirectionRTL lays slot 0 out on the right.
	DirectionRTL
)

// Key is a navigation key.
type Key int

const (
	// KeyLeft is the left arrow key.
	KeyLeft Key = iota
	// KeyRight is the right arrow key.
	KeyRight
)

// Options configures a new Input.
type Options struct {
	// Length is the number of slots.
	Length int
	// Value is the initial value; it may be shorter than Length.
	Value string
	// Disabled blocks every mutation until SetDisabled(false).
	Disabled bool
	// Direction decides which way the arrow keys move focus.
	Direction Direction
	// OnChange receives the assembled value after every mutation.
	OnChange func(value string)
	// OnComplete receives the full value once per completed fill.
	OnComplete func(value string)
}

// Input is a headless digit-entry widget. It is not safe for concurrent use.
type Input struct {
	slots      []byte
	focus      int
	selected   bool
	disabled   bool
	dir        Direction
	onChange   func(string)
	onComplete func(string)
}

// New builds an Input from opts.
func New(opts Options) *Input {
	length := opts.Length
	if length <= 0 {
		length = DefaultLength
	}

	in := &Input{
		slots:      make([]byte, length),
		disabled:   opts.Disabled,
		dir:        opts.Direction,
		onChange:   opts.OnChange,
		onComplete: opts.OnComplete,
	}
	in.derive(opts.Value)

	return in
}

// Len returns the number of slots.
func (in *Input) Len() int {
	return len(in.slots)
}

// Value returns the filled slots concatenated in order.
func (in *Input) Value() string {
	var b strings.Builder
	for _, s := range in.slots {
		if s != 0 {
			b.WriteByte(s)
		}
	}

	return b.String()
}

// Slots returns the content of every slot, "" for an empty one.
func (in *Input) Slots() []string {
	return lo.Map(in.slots, func(s byte, _ int) string {
		if s == 0 {
			return ""
		}
		return string(s)
	})
}

// Focused returns the index of the focused slot.
func (in *Input) Focused() int {
	return in.focus
}

// Selected reports whether the focused slot's content is selected, meaning the
// next typed digit replaces it.
func (in *Input) Selected() bool {
	return in.selected
}

// Disabled reports whether mutations are blocked.
func (in *Input) Disabled() bool {
	return in.disabled
}

// SetDisabled blocks or unblocks mutations.
func (in *Input) SetDisabled(disabled bool) {
	in.disabled = disabled
}

// SetValue re-derives every slot from v. It is meant for callers resetting the
// widget (for example clearing it after a rejected code) and fires no callback.
func (in *Input) SetValue(v string) {
	in.derive(v)
}

// Type handles text entered into slot. A single digit is stored and focus moves
// to the next slot; input without any digit is rejected. Text carrying several
// digits (autofill) is handled as a paste.
func (in *Input) Type(slot int, text string) {
	if in.disabled || !in.valid(slot) {
		return
	}

	digits := phone.ToASCIIDigits(text)
	if digits == "" {
		return
	}
	if len(digits) > 1 {
		in.Paste(slot, digits)
		return
	}

	wasComplete := in.complete()
	in.slots[slot] = digits[0]
	if slot < len(in.slots)-1 {
		in.focusAt(slot + 1)
	} else {
		in.focus = slot
		in.selected = false
	}

	in.changed()

	if in.complete() && (slot == len(in.slots)-1 || !wasComplete) {
		in.completed()
	}
}

// Backspace clears slot when it holds a digit. On an empty slot it moves focus
// to the previous slot and clears that one instead.
func (in *Input) Backspace(slot int) {
	if in.disabled || !in.valid(slot) {
		return
	}

	if in.slots[slot] != 0 {
		in.slots[slot] = 0
		in.focus = slot
		in.selected = false
		in.changed()
		return
	}

	if slot == 0 {
		return
	}

	prev := slot - 1
	in.focus = prev
	in.selected = false
	if in.slots[prev] != 0 {
		in.slots[prev] = 0
		in.changed()
	}
}

// Arrow moves focus away from slot without touching any content.
func (in *Input) Arrow(slot int, key Key) {
	if in.disabled || !in.valid(slot) {
		return
	}

	step := 1
	if key == KeyLeft {
		step = -1
	}
	if in.dir == DirectionRTL {
		step = -step
	}

	in.focusAt(lo.Clamp(slot+step, 0, len(in.slots)-1))
}

// Paste spreads the digits of text over the slots starting at slot 0,
// whichever slot received the event, and focuses the last filled slot.
func (in *Input) Paste(slot int, text string) {
	if in.disabled || !in.valid(slot) {
		return
	}

	digits := phone.ToASCIIDigits(text)
	if digits == "" {
		return
	}

	n := min(len(digits), len(in.slots))
	for i := 0; i < n; i++ {
		in.slots[i] = digits[i]
	}
	in.focus = n - 1
	in.selected = false

	in.changed()

	if in.complete() {
		in.completed()
	}
}

// Focus moves focus to slot and selects its content.
func (in *Input) Focus(slot int) {
	if !in.valid(slot) {
		return
	}
	in.focusAt(slot)
}

func (in *Input) focusAt(slot int) {
	in.focus = slot
	in.selected = in.slots[slot] != 0
}

func (in *Input) derive(v string) {
	digits := phone.ToASCIIDigits(v)
	for i := range in.slots {
		if i < len(digits) {
			in.slots[i] = digits[i]
		} else {
			in.slots[i] = 0
		}
	}
	in.focus = min(len(digits), len(in.slots)-1)
	in.selected = false
}

func (in *Input) valid(slot int) bool {
	return slot >= 0 && slot < len(in.slots)
}

func (in *Input) complete() bool {
	return lo.EveryBy(in.slots, func(s byte) bool { return s != 0 })
}

func (in *Input) changed() {
	if in.onChange != nil {
		in.onChange(in.Value())
	}
}

func (in *Input) completed() {
	if in.onComplete != nil {
		in.onComplete(in.Value())
	}
}
