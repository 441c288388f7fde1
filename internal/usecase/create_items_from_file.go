package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// CreateItemsFromFileInput contains the parameters for creating items from a file.
type CreateItemsFromFileInput struct {
	Content string // File content (Markdown with YAML frontmatter blocks)
	DryRun  bool   // If true, parse and validate without creating items
}

// CreateItemsFromFileOutput contains the result of creating items from a file.
type CreateItemsFromFileOutput struct {
	Items []*domain.Item // Created items (or items that would be created in dry-run mode)
}

// CreateItemsFromFile is the use case for creating items from a draft file.
type CreateItemsFromFile struct {
	create       *CreateItem
	configLoader domain.ConfigLoader
}

// NewCreateItemsFromFile creates a new CreateItemsFromFile use case.
func NewCreateItemsFromFile(create *CreateItem, configLoader domain.ConfigLoader) *CreateItemsFromFile {
	return &CreateItemsFromFile{create: create, configLoader: configLoader}
}

// Execute creates one item per draft block, in file order.
// Creation stops at the first failure; earlier items stay created.
func (uc *CreateItemsFromFile) Execute(ctx context.Context, in CreateItemsFromFileInput) (*CreateItemsFromFileOutput, error) {
	loc := time.Local
	if uc.configLoader != nil {
		cfg, err := uc.configLoader.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if cfg.Location != nil {
			loc = cfg.Location
		}
	}

	drafts, err := domain.ParseItemDrafts(in.Content, loc)
	if err != nil {
		return nil, err
	}

	result := &CreateItemsFromFileOutput{Items: make([]*domain.Item, 0, len(drafts))}
	for i, draft := range drafts {
		input := draftInput(draft)

		if in.DryRun {
			if input.Priority != 0 {
				if err := domain.ValidatePriority(input.Priority); err != nil {
					return nil, fmt.Errorf("item %d: %w", i+1, err)
				}
			}
			result.Items = append(result.Items, &domain.Item{
				Kind:     input.Kind,
				Number:   i + 1,
				Name:     input.Name,
				Detail:   input.Detail,
				Priority: input.Priority,
				IsUrgent: input.IsUrgent,
				Reminder: input.Reminder,
				Letter:   input.Letter,
			})
			continue
		}

		out, err := uc.create.Execute(ctx, input)
		if err != nil {
			return result, fmt.Errorf("item %d: %w", i+1, err)
		}
		result.Items = append(result.Items, out.Item)
	}
	return result, nil
}

func draftInput(d domain.ItemDraft) CreateItemInput {
	in := CreateItemInput{
		Kind:      d.Kind,
		Name:      d.Name,
		Detail:    d.Detail,
		Priority:  d.Priority,
		IsUrgent:  d.IsUrgent,
		Reminder:  d.Reminder,
		StartTime: d.StartTime,
	}
	if d.Kind == domain.KindLetter {
		in.Letter = &domain.Letter{LetterCode: d.LetterCode, SentTo: d.SentTo, LetterType: d.LetterType}
	}
	return in
}
