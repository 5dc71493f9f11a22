package tools

import "github.com/atotto/clipboard"

// SystemClipboard is the production Clipboard on the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Get() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) Set(text string) error { return clipboard.WriteAll(text) }
