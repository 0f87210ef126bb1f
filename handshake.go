package snaprelay

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
)

const GUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var (
	crlf             = []byte("\r\n")
	headerTerminator = []byte("\r\n\r\n")
)

// AcceptKey computes the Sec-WebSocket-Accept value for a client key.
func AcceptKey(key string) string {
	hashedKey := sha1.Sum([]byte(key + GUID))
	return base64.StdEncoding.EncodeToString(hashedKey[:])
}

// SecKey finds the Sec-WebSocket-Key header in a raw upgrade request.
// The header name is matched case-insensitively and its value must be
// terminated by CRLF. A key that is not the base64 encoding of 16 bytes is
// rejected with ErrInvalidSecKey.
func SecKey(request []byte) (string, error) {
	rest := request
	for {
		i := bytes.Index(rest, crlf)
		if i < 0 {
			return "", ErrMissingSecKey
		}
		line := rest[:i]
		rest = rest[i+len(crlf):]

		if len(line) == 0 {
			// end of headers
			return "", ErrMissingSecKey
		}

		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok || !strings.EqualFold(string(bytes.TrimSpace(name)), "Sec-WebSocket-Key") {
			continue
		}

		key := string(bytes.TrimSpace(value))
		if key == "" {
			return "", ErrMissingSecKey
		}
		decoded, err := base64.StdEncoding.DecodeString(key)
		if err != nil || len(decoded) != 16 {
			return "", ErrInvalidSecKey
		}

		return key, nil
	}
}

// isCompleteRequest reports whether the request headers have been fully received.
func isCompleteRequest(raw []byte) (int, bool) {
	i := bytes.Index(raw, headerTerminator)
	if i < 0 {
		return 0, false
	}
	return i + len(headerTerminator), true
}

// AppendHandshakeResponse appends the 101 response accepting the upgrade.
func AppendHandshakeResponse(p []byte, acceptKey string) []byte {
	p = append(p, "HTTP/1.1 101 Switching Protocols\r\n"...)
	p = append(p, "Upgrade: websocket\r\n"...)
	p = append(p, "Connection: Upgrade\r\n"...)
	p = append(p, "Sec-WebSocket-Version: 13\r\n"...)
	p = append(p, "Sec-WebSocket-Accept: "...)
	p = append(p, acceptKey...)
	p = append(p, "\r\n"...)
	p = append(p, "\r\n"...)

	return p
}

// appendRejectResponse appends a plain-text HTTP error response that closes
// the connection.
func appendRejectResponse(p []byte, status int, reason string) []byte {
	p = append(p, "HTTP/1.1 "...)
	p = strconv.AppendInt(p, int64(status), 10)
	p = append(p, ' ')
	p = append(p, http.StatusText(status)...)
	p = append(p, "\r\n"...)
	p = append(p, "Connection: close\r\n"...)
	p = append(p, "Content-Type: text/plain; charset=utf-8\r\n"...)
	p = append(p, "Content-Length: "...)
	p = strconv.AppendInt(p, int64(len(reason)), 10)
	p = append(p, "\r\n\r\n"...)
	p = append(p, reason...)

	return p
}
