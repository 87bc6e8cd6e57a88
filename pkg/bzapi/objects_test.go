package bzapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/bzapi/bzapitest"
)

func TestUserFromFullPayload(t *testing.T) {
	bug, err := bzapi.NewBug(json.RawMessage(`{"id": 1, "summary": "s", "attachments": [{
		"id": 2, "bug_id": 1, "last_change_time": "2010-04-11T19:16:59Z", "creation_time": "2010-04-11T19:16:59Z",
		"description": "d", "content_type": "text/plain", "is_patch": "0", "is_obsolete": "0",
		"attacher": `+bzapitest.User+`}]}`), nil)
	require.NoError(t, err)

	u := bug.Attachments[0].Attacher
	assert.Equal(t, "avarma@mozilla.com", u.Name)
	realName, err := u.RealName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Atul Varma [:atul]", realName)
	email, err := u.Email(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "avarma@mozilla.com", email)
}

func TestUserLazyFulfillment(t *testing.T) {
	doer := bzapitest.NewDoer(map[string]string{"GET /user": bzapitest.UserSearchResult})
	u := bzapi.NewUser("avarma@mozilla.com", doer)

	realName, err := u.RealName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Atul Varma [:atul]", realName)

	email, err := u.Email(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "avarma@mozilla.com", email)
	_, err = u.RealName(context.Background())
	require.NoError(t, err)

	require.Len(t, doer.Calls, 1)
	assert.Equal(t, bzapitest.Call{Method: "GET", Path: "/user", Query: url.Values{"match": {"avarma@mozilla.com"}}}, doer.Calls[0])
}

func TestUserSearchAmbiguous(t *testing.T) {
	for body, want := range map[string]string{
		`{"users": []}`: "no users found",
		`{"users": [` + bzapitest.User + `, ` + bzapitest.User + `]}`: "more than one user found",
	} {
		u := bzapi.NewUser("avarma", bzapitest.NewDoer(map[string]string{"GET /user": body}))
		_, err := u.Email(context.Background())
		var apiErr *bzapi.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Contains(t, apiErr.Message, want)
	}
}

func TestUserWithoutAPI(t *testing.T) {
	_, err := bzapi.NewUser("bob", nil).Email(context.Background())
	assert.True(t, errors.Is(err, bzapi.ErrNoAPI))
}

func TestAttachmentLazyData(t *testing.T) {
	doer := bzapitest.NewDoer(map[string]string{"GET /attachment/438797": bzapitest.AttachmentWithData})
	a, err := bzapi.NewAttachment(json.RawMessage(bzapitest.AttachmentWithoutData), doer, nil)
	require.NoError(t, err)
	assert.Empty(t, doer.Calls)

	for i := 0; i < 2; i++ {
		data, err := a.Data(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "testing!", string(data))
	}
	require.Len(t, doer.Calls, 1)
	assert.Equal(t, bzapitest.Call{Method: "GET", Path: "/attachment/438797", Query: url.Values{"attachmentdata": {"1"}}}, doer.Calls[0])
}

func TestAttachmentFields(t *testing.T) {
	a, err := bzapi.NewAttachment(json.RawMessage(bzapitest.AttachmentWithData), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 438797, a.ID)
	assert.Equal(t, 558680, a.BugID)
	assert.Equal(t, time.Date(2010, 4, 11, 19, 16, 59, 0, time.UTC), a.CreationTime)
	assert.Equal(t, "test upload", a.Description)
	assert.Equal(t, "text/plain", a.ContentType)
	assert.True(t, a.IsPatch)
	assert.False(t, a.IsObsolete)
	assert.Equal(t, "Attachment 438797 - test upload", a.String())

	data, err := a.Data(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testing!", string(data))
}

func TestAttachmentWithoutAPI(t *testing.T) {
	a, err := bzapi.NewAttachment(json.RawMessage(bzapitest.AttachmentWithoutData), nil, nil)
	require.NoError(t, err)

	_, err = a.Data(context.Background())
	assert.True(t, errors.Is(err, bzapi.ErrNoAPI))
	_, err = a.Bug(context.Background())
	assert.True(t, errors.Is(err, bzapi.ErrNoAPI))
}

func TestAttachmentLazyBug(t *testing.T) {
	doer := bzapitest.NewDoer(map[string]string{
		"GET /attachment/438797": bzapitest.AttachmentWithData,
		"GET /bug/558680":        bzapitest.Bug,
	})
	a, err := bzapi.FetchAttachment(context.Background(), doer, 438797)
	require.NoError(t, err)

	bug, err := a.Bug(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bug 558680 - Here is a summary", bug.String())
	_, err = a.Bug(context.Background())
	require.NoError(t, err)
	assert.Len(t, doer.Calls, 2)
}

func TestAttachmentDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"bad boolean":    `"is_patch": "yes"`,
		"bare boolean":   `"is_patch": true`,
		"bad timestamp":  `"creation_time": "2010-04-11 19:16:59"`,
		"bad encoding":   `"encoding": "uuencode", "data": "xx"`,
		"missing field":  `"description": null`,
		"bad identifier": `"bug_id": "abc"`,
	}
	for name, override := range tests {
		t.Run(name, func(t *testing.T) {
			var base map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(bzapitest.AttachmentWithoutData), &base))
			var patch map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte("{"+override+"}"), &patch))
			for k, v := range patch {
				base[k] = v
			}
			raw, err := json.Marshal(base)
			require.NoError(t, err)

			_, err = bzapi.NewAttachment(raw, nil, nil)
			assert.Error(t, err)
		})
	}
}

func TestFetchBug(t *testing.T) {
	doer := bzapitest.NewDoer(map[string]string{"GET /bug/558680": bzapitest.Bug})
	bug, err := bzapi.FetchBug(context.Background(), doer, 558680)
	require.NoError(t, err)

	assert.Equal(t, 558680, bug.ID)
	assert.Equal(t, "Here is a summary", bug.Summary)
	require.Len(t, bug.Attachments, 1)
	assert.Equal(t, bzapitest.Call{Method: "GET", Path: "/bug/558680"}, doer.Calls[0])

	owner, err := bug.Attachments[0].Bug(context.Background())
	require.NoError(t, err)
	assert.Same(t, bug, owner)
	assert.Len(t, doer.Calls, 1)
}

func TestFetchBugMalformed(t *testing.T) {
	doer := bzapitest.NewDoer(map[string]string{"GET /bug/1": `{"id": 1}`})
	_, err := bzapi.FetchBug(context.Background(), doer, 1)
	var apiErr *bzapi.Error
	assert.True(t, errors.As(err, &apiErr))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := bzapi.ParseTimestamp("2010-04-11T19:16:59Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 4, 11, 19, 16, 59, 0, time.UTC), ts)

	_, err = bzapi.ParseTimestamp("2010-04-11T19:16:59+02:00")
	assert.Error(t, err)
}
