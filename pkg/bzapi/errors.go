package bzapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/openshift/bzpatch/pkg/transport"
)

// Error is any failure reported by, or caused by a bad answer from, the Bugzilla API.
type Error struct {
	Status      int
	Reason      string
	ContentType string
	Message     string
	// Body is the raw response, if there was one.
	Body string
}

func (e *Error) Error() string {
	msg := e.Message
	if len(msg) == 0 {
		msg = "unexpected response"
	}
	if e.Status == 0 {
		return "bugzilla api: " + msg
	}
	return fmt.Sprintf("bugzilla api: %s (%d %s)", msg, e.Status, e.Reason)
}

func newResponseError(resp *transport.Response) *Error {
	e := &Error{
		Status:      resp.Status,
		Reason:      resp.Reason,
		ContentType: resp.ContentType,
		Body:        resp.Text(),
	}
	if !resp.IsJSON() {
		e.Message = fmt.Sprintf("unexpected content type %q", resp.ContentType)
		return e
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		e.Message = body.Message
	}
	return e
}

// hasError reports whether the document is an object with a truthy "error" member.
func hasError(body json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return false
	}
	v, ok := obj["error"]
	return ok && truthy(v)
}

func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`, "[]", "{}":
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	return true
}
