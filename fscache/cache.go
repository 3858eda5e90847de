package fscache

import (
	"sort"
	"sync"

	"colfile_go/stream"
)

// RemoteFS is a connected remote filesystem, able to open files for the
// page layer to scan.
type RemoteFS interface {
	Open(path string) (stream.SeekableStream, error)
	Close() error
}

// ConnectFunc dials a remote filesystem. Called under the cache lock, at
// most once per distinct cache key.
type ConnectFunc func(namenode string, opts Options) (RemoteFS, error)

// Options carries the connection properties that distinguish one handle
// from another.
type Options struct {
	Username   string
	Properties map[string]string

	// DisableCache forces a fresh connection that is neither looked up nor
	// stored.
	DisableCache bool
}

// Handle is a cached connection to one namenode. Handles are shared
// between callers; closing the underlying filesystem is the cache owner's
// job, not the borrower's.
type Handle struct {
	Namenode string
	FS       RemoteFS
}

// Cache deduplicates filesystem connections by namenode and connection
// properties. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	conns   map[string]*Handle
	connect ConnectFunc
}

func New(connect ConnectFunc) *Cache {
	return &Cache{
		conns:   make(map[string]*Handle),
		connect: connect,
	}
}

// Connection returns the cached handle for the namenode and options,
// dialing one on first use.
func (c *Cache) Connection(namenode string, opts Options) (*Handle, error) {
	if opts.DisableCache {
		fs, err := c.connect(namenode, opts)
		if err != nil {
			return nil, err
		}
		return &Handle{Namenode: namenode, FS: fs}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(namenode, opts)
	if h, ok := c.conns[key]; ok {
		return h, nil
	}

	fs, err := c.connect(namenode, opts)
	if err != nil {
		return nil, err
	}
	h := &Handle{Namenode: namenode, FS: fs}
	c.conns[key] = h
	return h, nil
}

// Close closes every cached connection, keeping the first error.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for key, h := range c.conns {
		if err := h.FS.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.conns, key)
	}
	return firstErr
}

// cacheKey folds the username and connection properties into the namenode.
// Properties are appended in sorted order so equal option sets always map
// to the same key.
func cacheKey(namenode string, opts Options) string {
	key := namenode + "\x00" + opts.Username
	if len(opts.Properties) == 0 {
		return key
	}
	names := make([]string, 0, len(opts.Properties))
	for name := range opts.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key += "\x00" + name + "\x00" + opts.Properties[name]
	}
	return key
}
