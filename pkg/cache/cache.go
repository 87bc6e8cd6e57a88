package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/transport"
)

// Store holds responses by key. Entries never expire.
type Store interface {
	Get(key string) (*transport.Response, bool, error)
	Put(key string, resp *transport.Response) error
}

// BlobStore keeps one JSON file per entry, named after the key.
type BlobStore struct {
	dir string
}

var _ Store = &BlobStore{}

// NewBlobStore creates dir if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

func (b *BlobStore) pathForKey(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *BlobStore) Get(key string) (*transport.Response, bool, error) {
	data, err := ioutil.ReadFile(b.pathForKey(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp transport.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return &resp, true, nil
}

func (b *BlobStore) Put(key string, resp *transport.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(b.pathForKey(key), data, 0644)
}

// MemoryStore is a Store that lives for the process only.
type MemoryStore map[string]*transport.Response

var _ Store = MemoryStore{}

func (m MemoryStore) Get(key string) (*transport.Response, bool, error) {
	resp, ok := m[key]
	return resp, ok, nil
}

func (m MemoryStore) Put(key string, resp *transport.Response) error {
	m[key] = resp
	return nil
}

// Key hashes the whole request, credentials included.
func Key(req *transport.Request) (string, error) {
	body, err := json.Marshal(req.Body)
	if err != nil {
		return "", err
	}
	tuple, err := json.Marshal([]interface{}{req.Method, req.URL, req.Query.Encode(), json.RawMessage(body)})
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(tuple)
	return hex.EncodeToString(sum[:]), nil
}

// Requester memoizes GET and HEAD responses of the wrapped requester.
type Requester struct {
	store Store
	next  transport.Requester
}

var _ transport.Requester = &Requester{}

func NewRequester(store Store, next transport.Requester) *Requester {
	return &Requester{store: store, next: next}
}

func (c *Requester) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if req.Method != "GET" && req.Method != "HEAD" {
		return c.next.Do(ctx, req)
	}

	key, err := Key(req)
	if err != nil {
		return nil, err
	}

	resp, ok, err := c.store.Get(key)
	switch {
	case err != nil:
		klog.Warningf("Ignoring unreadable cache entry for %s %s: %v", req.Method, req.URL, err)
	case ok:
		klog.V(4).Infof("Cache hit for %s %s (%s)", req.Method, req.URL, key)
		return resp, nil
	}

	klog.V(4).Infof("Cache miss for %s %s (%s)", req.Method, req.URL, key)
	resp, err = c.next.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(key, resp); err != nil {
		return nil, fmt.Errorf("store cache entry: %w", err)
	}
	return resp, nil
}
