// Package flash implements one-shot status messages carried across a
// redirect in a short-lived cookie. The message is set just before the
// redirect and consumed (and cleared) on the next page render.
package flash

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const cookieName = "flash"

const (
	KindSuccess = "success"
	KindInfo    = "info"
	KindError   = "error"
)

// Message is a user-facing status notice with a display kind.
type Message struct {
	Kind string
	Text string
}

// Set stores a flash message for the next request.
func Set(w http.ResponseWriter, kind, text string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + text))
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

func Success(w http.ResponseWriter, text string) { Set(w, KindSuccess, text) }
func Info(w http.ResponseWriter, text string)    { Set(w, KindInfo, text) }
func Error(w http.ResponseWriter, text string)   { Set(w, KindError, text) }

// Pop reads and clears the pending flash message, if any.
func Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return Message{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Message{}, false
	}

	kind, text, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return Message{}, false
	}
	return Message{Kind: kind, Text: text}, true
}
