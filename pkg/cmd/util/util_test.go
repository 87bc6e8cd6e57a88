package util

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskForConfirmation(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		retries int
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "maybe\nwhat\nyes\n", want: true, retries: 2},
		{input: "", want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, AskForConfirmation(strings.NewReader(tt.input), &out), tt.input)
		assert.Equal(t, tt.retries, strings.Count(out.String(), "I'm sorry"), tt.input)
	}
}

func TestParseBugID(t *testing.T) {
	id, err := ParseBugID("558680")
	require.NoError(t, err)
	assert.Equal(t, 558680, id)

	for _, bad := range []string{"abc", "-1", "0", ""} {
		_, err := ParseBugID(bad)
		assert.EqualError(t, err, "not a valid bug id: "+bad)
	}
}

func TestClientOptionsComplete(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, ioutil.WriteFile(p, []byte(`{"api_server": "http://foo/latest", "cache_dir": "/tmp/bz"}`), 0600))
	t.Setenv("BUGZILLA_APIKEY", "key")
	t.Setenv("GITHUB_TOKEN", "token")

	o := &ClientOptions{ConfigFile: p, NoCache: true}
	require.NoError(t, o.Complete())
	assert.Equal(t, "http://foo/latest", o.Config.APIServer)
	assert.Equal(t, "key", o.Config.APIKey)
	assert.Equal(t, "token", o.Config.GithubToken)
	assert.Empty(t, o.Config.CacheDir)
}
