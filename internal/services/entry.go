package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/insight/tagger"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/requestdata"
	"github.com/avaraper/calily-backend/internal/types"
)

const maxEntryTextLen = 1000
const maxEntryImageBytes = 5 * 1024 * 1024

// EntryInput is the caller-supplied portion of an entry write.
type EntryInput struct {
	Text      string
	ImageData []byte
	ImageType string
	ImageName string
}

// EntryStats summarizes a user's journal for the stats panel.
type EntryStats struct {
	TotalEntries int            `json:"totalEntries"`
	ThisWeek     int            `json:"thisWeek"`
	TopTags      map[string]int `json:"topTags"`
	FirstEntry   *time.Time     `json:"firstEntry,omitempty"`
	LastEntry    *time.Time     `json:"lastEntry,omitempty"`
}

type EntryService interface {
	CreateEntry(ctx context.Context, input EntryInput) (*types.JournalEntry, error)
	GetEntry(ctx context.Context, entryID uuid.UUID) (*types.JournalEntry, error)
	UpdateEntry(ctx context.Context, entryID uuid.UUID, input EntryInput) (*types.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	ListEntries(ctx context.Context, limit int) ([]*types.JournalEntry, error)
	ListEntriesSince(ctx context.Context, since time.Time) ([]*types.JournalEntry, error)
	SearchEntries(ctx context.Context, query string) ([]*types.JournalEntry, error)
	Stats(ctx context.Context) (*EntryStats, error)
	ExportText(ctx context.Context) (string, error)
}

type entryService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo repos.EntryRepo
}

func NewEntryService(db *gorm.DB, log *logger.Logger, entryRepo repos.EntryRepo) EntryService {
	return &entryService{
		db:        db,
		log:       log.With("service", "EntryService"),
		entryRepo: entryRepo,
	}
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("not authenticated")
	}
	return rd.UserID, nil
}

func validateEntryInput(input EntryInput) error {
	if strings.TrimSpace(input.Text) == "" {
		return fmt.Errorf("entry text is required")
	}
	if len(input.Text) > maxEntryTextLen {
		return fmt.Errorf("entry text exceeds %d characters", maxEntryTextLen)
	}
	if len(input.ImageData) > maxEntryImageBytes {
		return fmt.Errorf("entry image exceeds 5MB")
	}
	return nil
}

func (es *entryService) CreateEntry(ctx context.Context, input EntryInput) (*types.JournalEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	entry := &types.JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      input.Text,
		ImageData: input.ImageData,
		ImageType: input.ImageType,
		ImageName: input.ImageName,
	}
	if err := entry.SetTags(tagger.Tag(entry.Text)); err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	created, err := es.entryRepo.Create(ctx, nil, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return created, nil
}

func (es *entryService) GetEntry(ctx context.Context, entryID uuid.UUID) (*types.JournalEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := es.entryRepo.GetByID(ctx, nil, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("entry not found")
	}
	return entry, nil
}

// UpdateEntry replaces the text and image and recomputes tags from scratch.
// Tags are never merged across edits.
func (es *entryService) UpdateEntry(ctx context.Context, entryID uuid.UUID, input EntryInput) (*types.JournalEntry, error) {
	entry, err := es.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	entry.Text = input.Text
	entry.ImageData = input.ImageData
	entry.ImageType = input.ImageType
	entry.ImageName = input.ImageName
	if err := entry.SetTags(tagger.Tag(entry.Text)); err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	updated, err := es.entryRepo.Update(ctx, nil, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return updated, nil
}

func (es *entryService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	deleted, err := es.entryRepo.Delete(ctx, nil, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return fmt.Errorf("entry not found")
	}
	return nil
}

func (es *entryService) ListEntries(ctx context.Context, limit int) ([]*types.JournalEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := es.entryRepo.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (es *entryService) ListEntriesSince(ctx context.Context, since time.Time) ([]*types.JournalEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := es.entryRepo.ListByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (es *entryService) SearchEntries(ctx context.Context, query string) ([]*types.JournalEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return es.entryRepo.ListByUser(ctx, nil, userID, 0)
	}
	entries, err := es.entryRepo.Search(ctx, nil, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	return entries, nil
}

func (es *entryService) Stats(ctx context.Context) (*EntryStats, error) {
	entries, err := es.ListEntries(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &EntryStats{
		TotalEntries: len(entries),
		TopTags:      map[string]int{},
	}
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)

	counts := map[string]int{}
	for _, e := range entries {
		if e.CreatedAt.After(weekAgo) {
			stats.ThisWeek++
		}
		for _, tag := range e.TagList() {
			counts[tag]++
		}
		created := e.CreatedAt
		if stats.FirstEntry == nil || created.Before(*stats.FirstEntry) {
			stats.FirstEntry = &created
		}
		if stats.LastEntry == nil || created.After(*stats.LastEntry) {
			stats.LastEntry = &created
		}
	}

	type tagCount struct {
		tag   string
		count int
	}
	ordered := make([]tagCount, 0, len(counts))
	for tag, count := range counts {
		ordered = append(ordered, tagCount{tag, count})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].tag < ordered[j].tag
	})
	if len(ordered) > 10 {
		ordered = ordered[:10]
	}
	for _, tc := range ordered {
		stats.TopTags[tc.tag] = tc.count
	}
	return stats, nil
}

// ExportText renders the full journal as plain text, newest entry first.
func (es *entryService) ExportText(ctx context.Context) (string, error) {
	entries, err := es.ListEntries(ctx, 0)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Health Journal Export\n")
	b.WriteString("Generated: " + time.Now().Format("Jan 2, 2006 3:04 PM") + "\n\n")
	for _, e := range entries {
		b.WriteString(e.CreatedAt.Format("Jan 2, 2006 3:04 PM") + "\n")
		b.WriteString(e.Text + "\n")
		if tags := e.TagList(); len(tags) > 0 {
			b.WriteString("Tags: " + strings.Join(tags, ", ") + "\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
