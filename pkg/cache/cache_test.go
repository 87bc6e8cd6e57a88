package cache

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/bzpatch/pkg/transport"
)

type countingRequester struct {
	calls int
}

func (c *countingRequester) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	c.calls++
	return &transport.Response{
		Status:      200,
		Reason:      "OK",
		ContentType: "application/json",
		Body:        json.RawMessage(`{"id": "5"}`),
	}, nil
}

func TestRequesterMemoizesGet(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	next := &countingRequester{}
	c := NewRequester(store, next)

	req := &transport.Request{Method: "GET", URL: "http://foo/latest/bug/5", Query: url.Values{"username": {"bar"}}}
	first, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Do(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.Status, second.Status)
	assert.JSONEq(t, string(first.Body), string(second.Body))
}

func TestRequesterKeysOnQuery(t *testing.T) {
	next := &countingRequester{}
	c := NewRequester(MemoryStore{}, next)

	for _, user := range []string{"bar", "baz", "bar"} {
		_, err := c.Do(context.Background(), &transport.Request{Method: "GET", URL: "http://foo/user", Query: url.Values{"match": {user}}})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, next.calls)
}

func TestRequesterSkipsPost(t *testing.T) {
	next := &countingRequester{}
	c := NewRequester(MemoryStore{}, next)

	req := &transport.Request{Method: "POST", URL: "http://foo/bug/5/attachment", Body: map[string]string{"a": "b"}}
	for i := 0; i < 2; i++ {
		_, err := c.Do(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, next.calls)
}

func TestBlobStoreLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStore(dir)
	require.NoError(t, err)

	_, ok, err := store.Get("abc")
	require.NoError(t, err)
	assert.False(t, ok)

	resp := &transport.Response{Status: 200, Reason: "OK", ContentType: "text/plain", Body: json.RawMessage(`"hello"`)}
	require.NoError(t, store.Put("abc", resp))

	data, err := ioutil.ReadFile(filepath.Join(dir, "abc.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"reason":"OK","content_type":"text/plain","body":"hello"}`, string(data))

	got, ok, err := store.Get("abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", got.Text())
}

func TestKeyIsStable(t *testing.T) {
	a := &transport.Request{Method: "GET", URL: "http://foo/bug/1", Query: url.Values{"b": {"2"}, "a": {"1"}}}
	b := &transport.Request{Method: "GET", URL: "http://foo/bug/1", Query: url.Values{"a": {"1"}, "b": {"2"}}}
	ka, err := Key(a)
	require.NoError(t, err)
	kb, err := Key(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
	assert.Len(t, ka, 40)

	b.Method = "HEAD"
	kc, err := Key(b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc)
}
