package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPage       = "page"
	KeyFile       = "file"
	KeyRoot       = "root"
	KeyExtension  = "extension"
	KeyEncoding   = "encoding"
	KeyTemplate   = "template"
	KeyRenderer   = "renderer"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Page(p string) slog.Attr        { return slog.String(KeyPage, p) }
func File(f string) slog.Attr        { return slog.String(KeyFile, f) }
func Root(r string) slog.Attr        { return slog.String(KeyRoot, r) }
func Extension(e string) slog.Attr   { return slog.String(KeyExtension, e) }
func Encoding(e string) slog.Attr    { return slog.String(KeyEncoding, e) }
func Template(t string) slog.Attr    { return slog.String(KeyTemplate, t) }
func Renderer(r string) slog.Attr    { return slog.String(KeyRenderer, r) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr      { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Status(s int) slog.Attr         { return slog.Int(KeyStatus, s) }
func RequestID(id string) slog.Attr  { return slog.String(KeyRequestID, id) }
func RemoteAddr(a string) slog.Attr  { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr  { return slog.String(KeyUserAgent, ua) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
