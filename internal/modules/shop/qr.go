package shop

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated shop QR codes.
const QRSize = 1000

// PublicURL is the customer-facing address of the shop's menu.
func PublicURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/shop/" + slug
}

// QRCode encodes the shop's public URL as a PNG.
func QRCode(baseURL, slug string) ([]byte, error) {
	png, err := qrcode.Encode(PublicURL(baseURL, slug), qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", slug, err)
	}
	return png, nil
}
