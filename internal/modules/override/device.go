package override

import (
	"net/http"
	"strings"
)

// AnonymousDevice is used when a request carries no device identifier.
const AnonymousDevice = "anonymous"

// DeviceHeader identifies the browsing device whose overrides apply.
const DeviceHeader = "X-Device-ID"

// DeviceFromRequest reads the device id from the X-Device-ID header, then the
// device_id cookie.
func DeviceFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(DeviceHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie("device_id"); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return AnonymousDevice
}
