package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	services []string
	options  map[string][]OptionDescriptor
	svcErr   error
	optErr   map[string]error
	calls    int
}

func (f *fakeSource) Services(context.Context) ([]string, error) {
	if f.svcErr != nil {
		return nil, f.svcErr
	}
	return f.services, nil
}

func (f *fakeSource) ServiceOptions(_ context.Context, service string) ([]OptionDescriptor, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.optErr[service]; err != nil {
		return nil, err
	}
	return f.options[service], nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	errors   []string
	messages []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func TestLoader_Load(t *testing.T) {
	source := &fakeSource{
		services: []string{"s3", "vfs"},
		options: map[string][]OptionDescriptor{
			"s3": {
				{Name: "upload_cutoff", Groups: "Performance"},
				{Name: "chunk_size", Groups: "Performance"},
				{Name: "env_auth"},
			},
			"vfs": {
				{Name: "cache_mode", Groups: "Cache"},
			},
		},
	}
	notifier := &recordingNotifier{}
	loader := NewLoader(source, notifier)

	grouped, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"s3", "vfs"}, grouped.Services())
	assert.Equal(t, 4, grouped.Len())
	assert.Empty(t, notifier.errors)

	// options without groups land in General
	_, ok := grouped.Find("s3", "General", "env_auth")
	assert.True(t, ok)

	// options within a category come back sorted by name
	perf := grouped["s3"]["Performance"]
	require.Len(t, perf, 2)
	assert.Equal(t, "chunk_size", perf[0].Name)
	assert.Equal(t, "upload_cutoff", perf[1].Name)
}

func TestLoader_ServiceListingFails(t *testing.T) {
	source := &fakeSource{svcErr: errors.New("connection refused")}
	notifier := &recordingNotifier{}
	loader := NewLoader(source, notifier)

	grouped, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, grouped, "failed load leaves the catalog empty")
	require.Len(t, notifier.errors, 1, "failure is surfaced exactly once")
	assert.Contains(t, notifier.errors[0], "Could not load configuration")
}

func TestLoader_OneServiceFails(t *testing.T) {
	source := &fakeSource{
		services: []string{"s3", "vfs"},
		options: map[string][]OptionDescriptor{
			"s3": {{Name: "env_auth"}},
		},
		optErr: map[string]error{"vfs": errors.New("boom")},
	}
	notifier := &recordingNotifier{}
	loader := NewLoader(source, notifier)

	grouped, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, grouped, "partial results are discarded")
	assert.Len(t, notifier.errors, 1)
}

func TestLoader_Retry(t *testing.T) {
	source := &fakeSource{svcErr: errors.New("transient")}
	notifier := &recordingNotifier{}
	loader := NewLoader(source, notifier)

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	source.svcErr = nil
	source.services = []string{"s3"}
	source.options = map[string][]OptionDescriptor{"s3": {{Name: "env_auth"}}}

	grouped, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, grouped.Len())
}

func TestLoader_FetchesAllServices(t *testing.T) {
	services := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	options := make(map[string][]OptionDescriptor, len(services))
	for _, s := range services {
		options[s] = []OptionDescriptor{{Name: "opt"}}
	}
	source := &fakeSource{services: services, options: options}
	loader := NewLoader(source, &recordingNotifier{}, WithMaxParallel(2))

	grouped, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(services), len(grouped.Services()))
	assert.Equal(t, len(services), source.calls)
}
