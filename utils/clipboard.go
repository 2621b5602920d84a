package utils

import "github.com/atotto/clipboard"

// SystemClipboard writes to the OS clipboard. The capture flow hands
// its JSON batch over this user-mediated channel instead of a network
// call.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
