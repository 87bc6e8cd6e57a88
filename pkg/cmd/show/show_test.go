package show

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/bzpatch/pkg/bzapi/bzapitest"
	"github.com/openshift/bzpatch/pkg/bzrest"
)

func newOptions(t *testing.T, s *bzapitest.Server, output string) (*showOptions, *bytes.Buffer) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, ioutil.WriteFile(p, []byte(fmt.Sprintf(`{"api_server": %q, "server": "https://bugzilla.mozilla.org"}`, s.APIServer())), 0600))
	out := &bytes.Buffer{}
	opts := &showOptions{out: out, output: output}
	opts.ConfigFile = p
	return opts, out
}

func TestShowTable(t *testing.T) {
	s := bzapitest.NewServer(map[string]string{"GET /bug/558680": bzapitest.Bug})
	defer s.Close()

	opts, out := newOptions(t, s, "table")
	opts.details = func(id int) (*bzrest.Details, error) {
		return &bzrest.Details{Severity: "high", Component: []string{"General"}, Flags: []string{"review"}, PMScore: "10"}, nil
	}
	require.NoError(t, opts.Complete([]string{"558680"}))
	require.NoError(t, opts.Validate())
	require.NoError(t, opts.Run(context.Background()))

	assert.Contains(t, out.String(), "Bug 558680 - Here is a summary\nhttps://bugzilla.mozilla.org/show_bug.cgi?id=558680\n")
	assert.Contains(t, out.String(), "Severity: high")
	assert.Contains(t, out.String(), "438797")
	assert.Contains(t, out.String(), "test upload")
	assert.Contains(t, out.String(), "8 B")
}

func TestShowYAML(t *testing.T) {
	s := bzapitest.NewServer(map[string]string{"GET /bug/558680": bzapitest.Bug})
	defer s.Close()

	opts, out := newOptions(t, s, "yaml")
	opts.details = func(id int) (*bzrest.Details, error) {
		return nil, errors.New("invalid api key")
	}
	require.NoError(t, opts.Complete([]string{"558680"}))
	require.NoError(t, opts.Run(context.Background()))

	assert.Contains(t, out.String(), "id: 558680\n")
	assert.Contains(t, out.String(), "summary: Here is a summary\n")
	assert.NotContains(t, out.String(), "severity")
}

func TestShowNoAttachments(t *testing.T) {
	s := bzapitest.NewServer(map[string]string{"GET /bug/5": `{"id": 5, "summary": "yo"}`})
	defer s.Close()
	t.Setenv("BUGZILLA_APIKEY", "")

	opts, out := newOptions(t, s, "table")
	require.NoError(t, opts.Complete([]string{"5"}))
	assert.Nil(t, opts.details)
	require.NoError(t, opts.Run(context.Background()))
	assert.Contains(t, out.String(), "No attachments.")
}

func TestShowInvalidOutput(t *testing.T) {
	opts := &showOptions{output: "json"}
	assert.Error(t, opts.Validate())
}
