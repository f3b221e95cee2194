package httputil

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrorMessage extracts a human-readable message from an API error body.
// JSON bodies contribute their "message" field (a string or a list of
// strings); HTML error pages from proxies in front of the API contribute their
// title or first heading. It returns "" when nothing usable is found.
func ErrorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		var payload struct {
			Message json.RawMessage `json:"message"`
			Error   string          `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return ""
		}
		if msg := rawMessage(payload.Message); msg != "" {
			return msg
		}
		return payload.Error
	}

	if trimmed[0] == '<' {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
		if err != nil {
			return ""
		}
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			return title
		}
		return strings.TrimSpace(doc.Find("h1").First().Text())
	}

	return ""
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
