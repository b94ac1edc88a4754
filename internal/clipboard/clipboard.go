// Package clipboard writes dispatched text to the system clipboard.
package clipboard

import "github.com/atotto/clipboard"

// System uses the platform clipboard.
type System struct{}

// SetText replaces the clipboard contents.
func (System) SetText(text string) error {
	return clipboard.WriteAll(text)
}
