package domain

import "fmt"

// SyncSourceType identifies a schedule provider.
type SyncSourceType string

// SyncSourceSessionize is the only supported schedule provider.
const SyncSourceSessionize SyncSourceType = "sessionize"

// SynchronizationSource is a value object describing where a conference's
// schedule is imported from. Exactly one of URL and APIKey is set; the
// constructors enforce the exclusivity so setting one clears the other.
// swagger:model SynchronizationSource
type SynchronizationSource struct {
	Type   SyncSourceType `json:"type"`
	URL    string         `json:"url,omitempty"`
	APIKey string         `json:"api_key,omitempty"`
}

// NewSyncSourceWithAPIKey creates a source addressed by provider API key.
func NewSyncSourceWithAPIKey(sourceType SyncSourceType, apiKey string) (*SynchronizationSource, error) {
	if sourceType != SyncSourceSessionize {
		return nil, fmt.Errorf("%w: unsupported sync source type %q", ErrInvalidInput, sourceType)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is required", ErrInvalidInput)
	}
	return &SynchronizationSource{Type: sourceType, APIKey: apiKey}, nil
}

// NewSyncSourceWithURL creates a source addressed by full provider URL.
func NewSyncSourceWithURL(sourceType SyncSourceType, url string) (*SynchronizationSource, error) {
	if sourceType != SyncSourceSessionize {
		return nil, fmt.Errorf("%w: unsupported sync source type %q", ErrInvalidInput, sourceType)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	return &SynchronizationSource{Type: sourceType, URL: url}, nil
}

// Configured reports whether the source names a supported provider and
// carries a non-blank credential. Reconciliation is a no-op otherwise.
func (s *SynchronizationSource) Configured() bool {
	if s == nil || s.Type != SyncSourceSessionize {
		return false
	}
	return s.APIKey != "" || s.URL != ""
}
