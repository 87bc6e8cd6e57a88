// Package bzapitest provides a call-recording bzapi.Doer and sample payloads for tests.
package bzapitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/openshift/bzpatch/pkg/bzapi"
)

const (
	User = `{"name": "avarma@mozilla.com", "real_name": "Atul Varma [:atul]", "email": "avarma@mozilla.com"}`

	UserSearchResult = `{"users": [` + User + `]}`

	AttachmentWithoutData = `{
  "id": "438797",
  "bug_id": "558680",
  "last_change_time": "2010-04-11T19:16:59Z",
  "creation_time": "2010-04-11T19:16:59Z",
  "description": "test upload",
  "content_type": "text/plain",
  "is_patch": "1",
  "is_obsolete": "0",
  "file_name": "contents.txt",
  "size": 8,
  "attacher": {"name": "avarma@mozilla.com"}
}`

	AttachmentWithData = `{
  "id": "438797",
  "bug_id": "558680",
  "last_change_time": "2010-04-11T19:16:59Z",
  "creation_time": "2010-04-11T19:16:59Z",
  "description": "test upload",
  "content_type": "text/plain",
  "is_patch": "1",
  "is_obsolete": "0",
  "encoding": "base64",
  "data": "dGVzdGluZyE=",
  "attacher": {"name": "avarma@mozilla.com"}
}`

	Bug = `{
  "id": "558680",
  "summary": "Here is a summary",
  "attachments": [` + AttachmentWithoutData + `]
}`
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Doer answers requests from Responses, keyed by "METHOD /path", and records every call.
type Doer struct {
	Responses map[string]string
	Calls     []Call
}

var _ bzapi.Doer = &Doer{}

func NewDoer(responses map[string]string) *Doer {
	return &Doer{Responses: responses}
}

func (d *Doer) Request(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	d.Calls = append(d.Calls, Call{Method: method, Path: path, Query: query, Body: body})
	resp, ok := d.Responses[method+" "+path]
	if !ok {
		return nil, &bzapi.Error{Status: 404, Reason: "Not Found", Message: fmt.Sprintf("no response for %s %s", method, path)}
	}
	return json.RawMessage(resp), nil
}
