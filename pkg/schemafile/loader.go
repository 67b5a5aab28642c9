package schemafile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/components"
)

// maxDocumentSize caps remote downloads.
const maxDocumentSize = 4 << 20

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem enables SourceKindFS sources.
func WithFileSystem(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.http = client
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(l *Loader) {
		if l.http == nil {
			l.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithRegistry sets the component registry used during coercion.
func WithRegistry(registry *components.Registry) Option {
	return func(l *Loader) {
		if registry != nil {
			l.registry = registry
		}
	}
}

// WithIDGenerator replaces the generator used for missing or duplicate ids.
func WithIDGenerator(fn func() string) Option {
	return func(l *Loader) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// Loader reads schema documents from files, an fs.FS or HTTP and coerces them
// into a FormSchema. HTTP is disabled unless a client is configured.
type Loader struct {
	fs       fs.FS
	http     *http.Client
	registry *components.Registry
	newID    func() string
}

// NewLoader constructs a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.registry == nil {
		l.registry = components.NewDefaultRegistry()
	}
	return l
}

// Load fetches the document behind src and coerces it.
func (l *Loader) Load(ctx context.Context, src Source) (Result, error) {
	if src == nil {
		return Result{}, errors.New("schemafile: source is nil")
	}
	data, err := l.read(ctx, src)
	if err != nil {
		return Result{}, fmt.Errorf("schemafile: load %s: %w", src.Location(), err)
	}
	return l.Parse(data, src.Location())
}

// Parse decodes a JSON or YAML document and coerces it.
func (l *Loader) Parse(data []byte, source string) (Result, error) {
	raw, err := decodeDocument(data, source)
	if err != nil {
		return Result{}, err
	}
	return Coerce(raw, CoerceOptions{Registry: l.registry, NewID: l.newID})
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch src.Kind() {
	case SourceKindFile:
		return os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("filesystem is not configured")
		}
		return fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("http support disabled")
		}
		return fetch(ctx, l.http, src.Location())
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
