package order

import (
	"net/url"
	"strings"
)

// componentEscaper undoes the differences between url.QueryEscape and a URI
// component encoding.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s as a URI component.
func EncodeComponent(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}

// WhatsAppLink returns the click-to-chat link that opens a chat with number
// prefilled with text.
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + strings.TrimSpace(number) + "?text=" + EncodeComponent(text)
}
