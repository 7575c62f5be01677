package mocks

import (
	"context"
	"sync"

	"github.com/morgangallant/logs-old/internal/domain"
)

// MockLogRepository is a mock implementation of domain.LogRepository for testing.
type MockLogRepository struct {
	mu          sync.Mutex
	CreatedLogs []domain.Log
	ListResult  []domain.Log
	CreateErr   error
	ListErr     error
}

func (m *MockLogRepository) CreateLog(ctx context.Context, log domain.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedLogs = append(m.CreatedLogs, log)
	return nil
}

func (m *MockLogRepository) ListLogs(ctx context.Context, limit int) ([]domain.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListResult, nil
}

func (m *MockLogRepository) GetLogs(ctx context.Context, ids []string) ([]domain.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Log
	for _, id := range ids {
		for _, l := range m.CreatedLogs {
			if l.ID == id {
				out = append(out, l)
			}
		}
		for _, l := range m.ListResult {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

// MockAttachmentRepository is a mock implementation of domain.AttachmentRepository.
type MockAttachmentRepository struct {
	mu                 sync.Mutex
	CreatedAttachments []domain.Attachment
	CreateErr          error
	GetErr             error
}

func (m *MockAttachmentRepository) CreateAttachment(ctx context.Context, att domain.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedAttachments = append(m.CreatedAttachments, att)
	return nil
}

func (m *MockAttachmentRepository) GetAttachment(ctx context.Context, id string) (domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domain.Attachment{}, m.GetErr
	}
	for _, att := range m.CreatedAttachments {
		if att.ID == id {
			return att, nil
		}
	}
	return domain.Attachment{}, domain.ErrNotFound
}

// MockEventRepository is a mock implementation of domain.EventRepository.
type MockEventRepository struct {
	mu            sync.Mutex
	CreatedEvents []domain.Event
	CreateErr     error
	ListErr       error
}

func (m *MockEventRepository) CreateEvents(ctx context.Context, events []domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedEvents = append(m.CreatedEvents, events...)
	return nil
}

func (m *MockEventRepository) ListEventsByLog(ctx context.Context, logID string) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Event
	for _, ev := range m.CreatedEvents {
		if ev.LogID == logID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// MockMediaFetcher is a mock implementation of domain.MediaFetcher.
type MockMediaFetcher struct {
	mu            sync.Mutex
	FetchedPhotos [][]domain.PhotoSize
	Result        []byte
	Err           error
}

func (m *MockMediaFetcher) Fetch(ctx context.Context, photos []domain.PhotoSize) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchedPhotos = append(m.FetchedPhotos, photos)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockFoodLookup is a mock implementation of domain.FoodLookup.
type MockFoodLookup struct {
	mu      sync.Mutex
	Queries []string
	Result  []domain.FoodItem
	Err     error
}

func (m *MockFoodLookup) Lookup(ctx context.Context, query string) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// IndexCall records one push into the mock indexer.
type IndexCall struct {
	LogID   string
	Kind    string // "text" or "image"
	Content string
}

// MockIndexer is a mock implementation of domain.Indexer.
type MockIndexer struct {
	mu           sync.Mutex
	Calls        []IndexCall
	SearchResult []domain.SearchMatch
	IndexErr     error
	SearchErr    error
}

func (m *MockIndexer) IndexText(ctx context.Context, logID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, IndexCall{LogID: logID, Kind: "text", Content: text})
	return m.IndexErr
}

func (m *MockIndexer) IndexImage(ctx context.Context, logID, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, IndexCall{LogID: logID, Kind: "image", Content: imageURL})
	return m.IndexErr
}

func (m *MockIndexer) Search(ctx context.Context, query string, max int) ([]domain.SearchMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResult, nil
}

// MockUpdateDeduper is a mock implementation of domain.UpdateDeduper.
// Seen consults only what Mark recorded, mirroring the check/mark split.
type MockUpdateDeduper struct {
	mu      sync.Mutex
	SeenIDs map[int64]bool
	Checked []int64
	Marked  []int64
	SeenErr error
	MarkErr error
}

func (m *MockUpdateDeduper) Seen(ctx context.Context, updateID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Checked = append(m.Checked, updateID)
	if m.SeenErr != nil {
		return false, m.SeenErr
	}
	return m.SeenIDs[updateID], nil
}

func (m *MockUpdateDeduper) Mark(ctx context.Context, updateID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkErr != nil {
		return m.MarkErr
	}
	if m.SeenIDs == nil {
		m.SeenIDs = make(map[int64]bool)
	}
	m.SeenIDs[updateID] = true
	m.Marked = append(m.Marked, updateID)
	return nil
}
