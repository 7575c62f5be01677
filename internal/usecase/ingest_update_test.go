package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/morgangallant/logs-old/internal/domain"
	"github.com/morgangallant/logs-old/internal/domain/mocks"
)

const testUser = "alice"

type ingestFixture struct {
	logs        *mocks.MockLogRepository
	attachments *mocks.MockAttachmentRepository
	events      *mocks.MockEventRepository
	media       *mocks.MockMediaFetcher
	lookup      *mocks.MockFoodLookup
	indexer     *mocks.MockIndexer
	deduper     *mocks.MockUpdateDeduper
}

func newFixture() *ingestFixture {
	return &ingestFixture{
		logs:        &mocks.MockLogRepository{},
		attachments: &mocks.MockAttachmentRepository{},
		events:      &mocks.MockEventRepository{},
		media:       &mocks.MockMediaFetcher{},
		lookup:      &mocks.MockFoodLookup{},
		indexer:     &mocks.MockIndexer{},
	}
}

func (f *ingestFixture) useCase(baseURL string) *IngestUpdateUseCase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var indexer domain.Indexer
	if f.indexer != nil {
		indexer = f.indexer
	}
	var deduper domain.UpdateDeduper
	if f.deduper != nil {
		deduper = f.deduper
	}
	return NewIngestUpdateUseCase(
		f.logs, f.attachments, f.events,
		f.media, DefaultPipeline(f.lookup), indexer, deduper,
		testUser, baseURL, logger, nil,
	)
}

func textUpdate(username, text string) *domain.Update {
	return &domain.Update{
		UpdateID: 1,
		Message:  &domain.IncomingMessage{From: domain.Sender{Username: username}, Text: text},
	}
}

func TestIngestUpdateUseCase_Text(t *testing.T) {
	t.Run("Wakeup Marker", func(t *testing.T) {
		f := newFixture()
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.logs.CreatedLogs) != 1 {
			t.Fatalf("expected 1 log, got %d", len(f.logs.CreatedLogs))
		}
		log := f.logs.CreatedLogs[0]
		if log.Content != "gm" || log.AttachmentID != "" {
			t.Errorf("unexpected log: %+v", log)
		}
		if log.ID == "" || log.CreatedAt.IsZero() {
			t.Error("expected log ID and timestamp to be assigned")
		}

		if len(f.events.CreatedEvents) != 1 {
			t.Fatalf("expected 1 event, got %d", len(f.events.CreatedEvents))
		}
		ev := f.events.CreatedEvents[0]
		if ev.Type != domain.EventWakeup {
			t.Errorf("event type = %q, want %q", ev.Type, domain.EventWakeup)
		}
		if ev.LogID != log.ID {
			t.Error("event does not reference the persisted log")
		}

		if len(f.indexer.Calls) != 1 {
			t.Fatalf("expected 1 index push, got %d", len(f.indexer.Calls))
		}
		if c := f.indexer.Calls[0]; c.Kind != "text" || c.LogID != log.ID || c.Content != "gm" {
			t.Errorf("unexpected index call: %+v", c)
		}
	})

	t.Run("Food Intake Carries Record As Metadata", func(t *testing.T) {
		f := newFixture()
		apple := domain.FoodItem{Name: "apple", ServingQty: 1, ServingUnit: "medium", Calories: 95}
		f.lookup.Result = []domain.FoodItem{apple}
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "I ate an apple")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.logs.CreatedLogs) != 1 {
			t.Fatalf("expected 1 log, got %d", len(f.logs.CreatedLogs))
		}
		if len(f.events.CreatedEvents) != 1 {
			t.Fatalf("expected 1 event, got %d", len(f.events.CreatedEvents))
		}
		ev := f.events.CreatedEvents[0]
		if ev.Type != domain.EventAte {
			t.Errorf("event type = %q, want %q", ev.Type, domain.EventAte)
		}
		var got domain.FoodItem
		if err := json.Unmarshal(ev.Metadata, &got); err != nil {
			t.Fatalf("failed to unmarshal event metadata: %v", err)
		}
		if got != apple {
			t.Errorf("metadata = %+v, want %+v", got, apple)
		}
	})

	t.Run("Plain Text Yields No Events", func(t *testing.T) {
		f := newFixture()
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "visited the library")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.logs.CreatedLogs) != 1 {
			t.Fatalf("expected 1 log, got %d", len(f.logs.CreatedLogs))
		}
		if len(f.events.CreatedEvents) != 0 {
			t.Errorf("expected no events, got %d", len(f.events.CreatedEvents))
		}
	})

	t.Run("Enrichment Failure Aborts Extraction But Keeps Log", func(t *testing.T) {
		f := newFixture()
		f.lookup.Err = errors.New("upstream unavailable")
		uc := f.useCase("")

		err := uc.Ingest(context.Background(), textUpdate(testUser, "ate lunch"))
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if len(f.logs.CreatedLogs) != 1 {
			t.Errorf("expected log to stay persisted, got %d", len(f.logs.CreatedLogs))
		}
		if len(f.events.CreatedEvents) != 0 {
			t.Errorf("expected no events after pipeline failure, got %d", len(f.events.CreatedEvents))
		}
		if len(f.indexer.Calls) != 0 {
			t.Errorf("expected no index push after pipeline failure, got %d", len(f.indexer.Calls))
		}
	})

	t.Run("Log Persisted Before Events", func(t *testing.T) {
		f := newFixture()
		f.logs.CreateErr = errors.New("db down")
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err == nil {
			t.Fatal("expected an error, got nil")
		}
		if len(f.events.CreatedEvents) != 0 {
			t.Errorf("expected no events when the log insert fails, got %d", len(f.events.CreatedEvents))
		}
	})

	t.Run("Index Failure Is Swallowed", func(t *testing.T) {
		f := newFixture()
		f.indexer.IndexErr = errors.New("index down")
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err != nil {
			t.Fatalf("expected indexing failure to be swallowed, got %v", err)
		}
		if len(f.logs.CreatedLogs) != 1 || len(f.events.CreatedEvents) != 1 {
			t.Error("expected persistence to be unaffected by index failure")
		}
	})
}

func TestIngestUpdateUseCase_Photo(t *testing.T) {
	photos := []domain.PhotoSize{
		{FileID: "a", Width: 90, Height: 90},
		{FileID: "b", Width: 1280, Height: 1280},
	}
	photoUpdate := &domain.Update{
		UpdateID: 2,
		Message:  &domain.IncomingMessage{From: domain.Sender{Username: testUser}, Photo: photos},
	}

	t.Run("Stores Attachment Then Log", func(t *testing.T) {
		f := newFixture()
		f.media.Result = []byte("image-bytes")
		uc := f.useCase("https://logs.example.com")

		if err := uc.Ingest(context.Background(), photoUpdate); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.media.FetchedPhotos) != 1 {
			t.Fatalf("expected 1 fetch, got %d", len(f.media.FetchedPhotos))
		}
		if len(f.attachments.CreatedAttachments) != 1 {
			t.Fatalf("expected 1 attachment, got %d", len(f.attachments.CreatedAttachments))
		}
		att := f.attachments.CreatedAttachments[0]
		if string(att.Data) != "image-bytes" {
			t.Errorf("attachment data = %q, want downloaded bytes", att.Data)
		}

		if len(f.logs.CreatedLogs) != 1 {
			t.Fatalf("expected 1 log, got %d", len(f.logs.CreatedLogs))
		}
		log := f.logs.CreatedLogs[0]
		if log.AttachmentID != att.ID || log.Content != "" {
			t.Errorf("unexpected log: %+v", log)
		}
		if len(f.events.CreatedEvents) != 0 {
			t.Errorf("expected no events for photo, got %d", len(f.events.CreatedEvents))
		}

		if len(f.indexer.Calls) != 1 {
			t.Fatalf("expected 1 index push, got %d", len(f.indexer.Calls))
		}
		c := f.indexer.Calls[0]
		if c.Kind != "image" || c.Content != "https://logs.example.com/media/"+att.ID {
			t.Errorf("unexpected index call: %+v", c)
		}
	})

	t.Run("Fetch Failure Persists Nothing", func(t *testing.T) {
		f := newFixture()
		f.media.Err = errors.New("getFile returned status 500")
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), photoUpdate); err == nil {
			t.Fatal("expected an error, got nil")
		}
		if len(f.attachments.CreatedAttachments) != 0 || len(f.logs.CreatedLogs) != 0 {
			t.Error("expected no persistence after fetch failure")
		}
	})

	t.Run("No Base URL Skips Image Indexing", func(t *testing.T) {
		f := newFixture()
		f.media.Result = []byte("x")
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), photoUpdate); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.indexer.Calls) != 0 {
			t.Errorf("expected no index push without a base URL, got %d", len(f.indexer.Calls))
		}
	})
}

func TestIngestUpdateUseCase_Gatekeeping(t *testing.T) {
	t.Run("Unauthorized Sender Is A No-Op", func(t *testing.T) {
		f := newFixture()
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate("mallory", "gm")); err != nil {
			t.Fatalf("expected silent acknowledgment, got %v", err)
		}
		if len(f.logs.CreatedLogs) != 0 || len(f.attachments.CreatedAttachments) != 0 || len(f.events.CreatedEvents) != 0 {
			t.Error("expected no persistence for unauthorized sender")
		}
		if len(f.media.FetchedPhotos) != 0 || len(f.lookup.Queries) != 0 || len(f.indexer.Calls) != 0 {
			t.Error("expected no collaborator calls for unauthorized sender")
		}
	})

	t.Run("Update Without Message Is A No-Op", func(t *testing.T) {
		f := newFixture()
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), &domain.Update{UpdateID: 3}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.logs.CreatedLogs) != 0 {
			t.Error("expected no persistence for empty update")
		}
	})

	t.Run("Redelivered Update Is Skipped", func(t *testing.T) {
		f := newFixture()
		f.deduper = &mocks.MockUpdateDeduper{}
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err != nil {
			t.Fatalf("first delivery: %v", err)
		}
		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err != nil {
			t.Fatalf("redelivery: %v", err)
		}
		if len(f.logs.CreatedLogs) != 1 {
			t.Errorf("expected redelivery to be suppressed, got %d logs", len(f.logs.CreatedLogs))
		}
	})

	t.Run("Dedupe Failure Does Not Block Ingestion", func(t *testing.T) {
		f := newFixture()
		f.deduper = &mocks.MockUpdateDeduper{SeenErr: errors.New("redis down")}
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate(testUser, "gm")); err != nil {
			t.Fatalf("expected ingestion to proceed, got %v", err)
		}
		if len(f.logs.CreatedLogs) != 1 {
			t.Errorf("expected 1 log, got %d", len(f.logs.CreatedLogs))
		}
	})

	t.Run("Failed Delivery Stays Redeliverable", func(t *testing.T) {
		f := newFixture()
		f.deduper = &mocks.MockUpdateDeduper{}
		f.media.Err = errors.New("getFile returned status 500")
		uc := f.useCase("")

		photoUpdate := &domain.Update{
			UpdateID: 42,
			Message: &domain.IncomingMessage{
				From:  domain.Sender{Username: testUser},
				Photo: []domain.PhotoSize{{FileID: "a"}, {FileID: "b"}},
			},
		}

		if err := uc.Ingest(context.Background(), photoUpdate); err == nil {
			t.Fatal("expected the first delivery to fail")
		}
		if len(f.deduper.Marked) != 0 {
			t.Fatal("a failed delivery must not be marked as handled")
		}

		// The fetch recovers and the platform redelivers the same update.
		f.media.Err = nil
		f.media.Result = []byte("image-bytes")

		if err := uc.Ingest(context.Background(), photoUpdate); err != nil {
			t.Fatalf("redelivery after recovery: %v", err)
		}
		if len(f.logs.CreatedLogs) != 1 {
			t.Fatalf("expected the redelivery to persist the log, got %d", len(f.logs.CreatedLogs))
		}
		if len(f.deduper.Marked) != 1 || f.deduper.Marked[0] != 42 {
			t.Errorf("expected the successful redelivery to be marked, got %v", f.deduper.Marked)
		}
	})

	t.Run("Unauthorized Sender Skips Dedupe Bookkeeping", func(t *testing.T) {
		f := newFixture()
		f.deduper = &mocks.MockUpdateDeduper{}
		uc := f.useCase("")

		if err := uc.Ingest(context.Background(), textUpdate("mallory", "gm")); err != nil {
			t.Fatalf("expected silent acknowledgment, got %v", err)
		}
		if len(f.deduper.Checked) != 0 || len(f.deduper.Marked) != 0 {
			t.Errorf("expected no dedupe calls for unauthorized sender, checked=%v marked=%v", f.deduper.Checked, f.deduper.Marked)
		}
	})
}
