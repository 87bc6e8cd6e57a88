package bzapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/cache"
	"github.com/openshift/bzpatch/pkg/config"
	"github.com/openshift/bzpatch/pkg/transport"
)

var (
	// ErrUnknownContentType is returned when no MIME type can be guessed for an upload.
	ErrUnknownContentType = errors.New("could not guess content type")

	// ErrNoAPI is returned when a missing field must be fetched but there is nothing to fetch it with.
	ErrNoAPI = errors.New("no bugzilla api available")
)

// Doer issues requests against paths relative to the API server.
type Doer interface {
	Request(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error)
}

// API adds credentials and the server base URL to every request.
type API struct {
	config    config.Config
	requester transport.Requester

	// GuessContentType returns the MIME type for a file name, or "" when it has no idea.
	GuessContentType func(filename string) string
}

var _ Doer = &API{}

func New(cfg *config.Config, requester transport.Requester) *API {
	return &API{
		config:           *cfg,
		requester:        requester,
		GuessContentType: guessContentType,
	}
}

// NewForConfig builds an API talking HTTP, memoized on disk when a cache directory is configured.
func NewForConfig(cfg *config.Config) (*API, error) {
	var requester transport.Requester = transport.NewHTTPRequester()
	if len(cfg.CacheDir) > 0 {
		store, err := cache.NewBlobStore(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		klog.V(2).Infof("Caching responses in %s", cfg.CacheDir)
		requester = cache.NewRequester(store, requester)
	}
	return New(cfg, requester), nil
}

// Request sends the call and returns the JSON document from the server. Any response that is not
// JSON, or carries a truthy "error" member, is returned as *Error.
func (a *API) Request(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if a.config.HasCredentials() {
		q.Set("username", a.config.Username)
		q.Set("password", a.config.Password)
	}

	resp, err := a.requester.Do(ctx, &transport.Request{
		Method: method,
		URL:    a.config.APIServer + path,
		Query:  q,
		Body:   body,
	})
	if errors.Is(err, transport.ErrMalformedJSON) {
		return nil, &Error{Message: err.Error()}
	}
	if err != nil {
		return nil, err
	}

	if !resp.IsJSON() || hasError(resp.Body) {
		return nil, newResponseError(resp)
	}
	return resp.Body, nil
}

// CurrentUser is the configured account. Its details are fetched lazily.
func (a *API) CurrentUser() (*User, error) {
	if len(a.config.Username) == 0 {
		return nil, fmt.Errorf("no username configured")
	}
	return NewUser(a.config.Username, a), nil
}

// Flag is a flag set on an uploaded attachment, e.g. a review request.
type Flag struct {
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Requestee *FlagRequestee `json:"requestee,omitempty"`
}

type FlagRequestee struct {
	Name string `json:"name"`
}

// AttachmentUpload describes a new attachment. ContentType is guessed from FileName when empty.
type AttachmentUpload struct {
	Contents    []byte
	FileName    string
	Description string
	ContentType string
	IsPatch     bool
	IsPrivate   bool
	IsObsolete  bool
	Flags       []Flag
}

type attachmentPayload struct {
	Data        string `json:"data"`
	Description string `json:"description"`
	Encoding    string `json:"encoding"`
	FileName    string `json:"file_name"`
	Flags       []Flag `json:"flags"`
	IsObsolete  bool   `json:"is_obsolete"`
	IsPatch     bool   `json:"is_patch"`
	IsPrivate   bool   `json:"is_private"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}

// PostAttachment uploads a new attachment to the bug and returns the server's reply.
func (a *API) PostAttachment(ctx context.Context, bugID int, upload AttachmentUpload) (json.RawMessage, error) {
	contentType := upload.ContentType
	if len(contentType) == 0 {
		contentType = a.GuessContentType(upload.FileName)
		if len(contentType) == 0 {
			return nil, fmt.Errorf("%w for %q", ErrUnknownContentType, upload.FileName)
		}
	}

	flags := upload.Flags
	if flags == nil {
		flags = []Flag{}
	}

	payload := attachmentPayload{
		Data:        base64.StdEncoding.EncodeToString(upload.Contents),
		Description: upload.Description,
		Encoding:    "base64",
		FileName:    upload.FileName,
		Flags:       flags,
		IsObsolete:  upload.IsObsolete,
		IsPatch:     upload.IsPatch,
		IsPrivate:   upload.IsPrivate,
		Size:        len(upload.Contents),
		ContentType: contentType,
	}
	return a.Request(ctx, "POST", fmt.Sprintf("/bug/%d/attachment", bugID), nil, payload)
}

// builtinContentTypes is consulted before the host MIME database, which may be
// missing on minimal systems.
var builtinContentTypes = map[string]string{
	".txt":   "text/plain",
	".diff":  "text/plain",
	".patch": "text/plain",
	".html":  "text/html",
	".htm":   "text/html",
	".json":  "application/json",
}

func guessContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := builtinContentTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if len(t) == 0 {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}
