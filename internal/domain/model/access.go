package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SubKeyRender selects codes that log a user into the rendered site.
const SubKeyRender = "render"

// IssueRequest asks the key service for a fresh access code.
type IssueRequest struct {
	SubKey string
	Name   string
}

// RedeemRequest is posted to the key service to validate a code.
type RedeemRequest struct {
	Code string `json:"code"`
}

// KeyResponse is the envelope every key service answer uses.
// Data is a six-digit number for issued codes but may be any JSON value.
type KeyResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Text renders Data the way a browser alert shows it: strings unquoted,
// "undefined" when data is absent, other values verbatim.
func (r *KeyResponse) Text() string {
	raw := bytes.TrimSpace(r.Data)
	if len(raw) == 0 {
		return "undefined"
	}
	if bytes.Equal(raw, []byte("null")) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
