package declare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/SanteonNL/sift/util"
)

// ErrNotFound is returned for resources without a declaration.
var ErrNotFound = errors.New("resource declaration not found")

func NewRepository(log zerolog.Logger) *Repository {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	client.Logger = leveledLogger{log: log}

	return &Repository{
		declarations: make(map[string]*Declaration),
		log:          log,
		client:       client,
	}
}

// Load reads declarations from an http(s) URL or a file path.
func (repo *Repository) Load(ctx context.Context, source string) error {
	if util.IsURL(source) {
		return repo.LoadFromURL(ctx, source)
	}
	return repo.LoadFromFile(source)
}

// LoadFromFile loads declarations from a file path
func (repo *Repository) LoadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return repo.load(data, filePath)
}

// LoadFromURL fetches declarations over HTTP, retrying transient failures.
func (repo *Repository) LoadFromURL(ctx context.Context, url string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := repo.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return repo.load(data, url)
}

func (repo *Repository) load(data []byte, source string) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal declarations from %s: %w", source, err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range doc.Resources {
		decl := doc.Resources[i]
		if decl.Name == "" {
			repo.log.Warn().Str("source", source).Int("index", i).Msg("Skipping declaration with missing name")
			continue
		}
		if decl.Table == "" {
			decl.Table = decl.Name
		}
		if _, exists := repo.declarations[decl.Name]; exists {
			repo.log.Warn().Str("resource", decl.Name).Msg("Replacing existing declaration")
		}
		repo.declarations[decl.Name] = &decl
	}

	repo.log.Info().
		Str("source", source).
		Int("count", len(repo.declarations)).
		Msg("Loaded resource declarations")
	return nil
}

// Add registers a declaration built in code.
func (repo *Repository) Add(decl Declaration) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if decl.Table == "" {
		decl.Table = decl.Name
	}
	repo.declarations[decl.Name] = &decl
}

// Get retrieves a declaration by resource name
func (repo *Repository) Get(name string) (*Declaration, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	decl, exists := repo.declarations[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return decl, nil
}

// Names returns the declared resource names in sorted order.
func (repo *Repository) Names() []string {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	names := maps.Keys(repo.declarations)
	slices.Sort(names)
	return names
}

// leveledLogger forwards retryablehttp logging to zerolog.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
