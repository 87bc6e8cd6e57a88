package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const jsonContentType = "application/json"

var (
	// ErrUnsupportedScheme is returned for any URL that is not http or https.
	ErrUnsupportedScheme = errors.New("unknown scheme")

	// ErrMalformedJSON is returned when a response claims to be JSON but does not parse.
	ErrMalformedJSON = errors.New("malformed JSON response")
)

// Request describes a single JSON API call.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	// Body is serialized as JSON when non-nil.
	Body interface{}
}

// Response is what came back from the server. Body always holds valid JSON: the decoded document
// for application/json responses, otherwise the raw text encoded as a JSON string.
type Response struct {
	Status      int             `json:"status"`
	Reason      string          `json:"reason"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// IsJSON reports whether the server answered with application/json.
func (r *Response) IsJSON() bool {
	return r.ContentType == jsonContentType
}

// Text returns the body of a non-JSON response as it was received.
func (r *Response) Text() string {
	if r.IsJSON() {
		return string(r.Body)
	}
	var text string
	if err := json.Unmarshal(r.Body, &text); err != nil {
		return string(r.Body)
	}
	return text
}

// Requester performs a single synchronous request.
type Requester interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPRequester sends requests over HTTP(S).
type HTTPRequester struct {
	Client *http.Client
}

var _ Requester = &HTTPRequester{}

func NewHTTPRequester() *HTTPRequester {
	return &HTTPRequester{Client: http.DefaultClient}
}

func (h *HTTPRequester) Do(ctx context.Context, req *Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", jsonContentType)
	httpReq.Header.Set("Content-Type", jsonContentType)

	klog.V(2).Infof("%s %s", req.Method, RedactedURL(u))

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", RedactedURL(u), err)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	result := &Response{
		Status:      resp.StatusCode,
		Reason:      strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
		ContentType: mediaType,
	}
	if mediaType == jsonContentType {
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w from %s (%s)", ErrMalformedJSON, RedactedURL(u), resp.Status)
		}
		result.Body = data
		return result, nil
	}
	if result.Body, err = json.Marshal(string(data)); err != nil {
		return nil, err
	}
	return result, nil
}

// RedactedURL renders u with any password query parameter masked, suitable for logs.
func RedactedURL(u *url.URL) string {
	q := u.Query()
	if _, ok := q["password"]; !ok {
		return u.String()
	}
	redacted := *u
	q.Set("password", "xxxxx")
	redacted.RawQuery = q.Encode()
	return redacted.String()
}
