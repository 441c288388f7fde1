package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ItemDraft is an item to be created from file input.
// Fields are ordered to minimize memory padding.
type ItemDraft struct {
	Reminder   *time.Time
	StartTime  *time.Time
	Kind       Kind
	Name       string
	Detail     string
	LetterCode string
	SentTo     string
	LetterType string
	Priority   int
	IsUrgent   bool
}

// draftFrontmatter is the YAML header of one draft block.
type draftFrontmatter struct {
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	Reminder   string `yaml:"reminder"`
	Start      string `yaml:"start"`
	LetterCode string `yaml:"code"`
	SentTo     string `yaml:"sentTo"`
	LetterType string `yaml:"letterType"`
	Priority   int    `yaml:"priority"`
	Urgent     bool   `yaml:"urgent"`
}

var frontmatterKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*:`)

// ParseItemDrafts parses a markdown file containing one or more item definitions.
// Each item is a YAML frontmatter block followed by its detail text.
//
// Format:
//
//	---
//	kind: task
//	name: Prepare monthly report
//	priority: 7
//	---
//	Detail text here.
//
//	---
//	kind: letter
//	name: Budget approval
//	code: HTS-12
//	sentTo: finance
//	reminder: 2024-03-10 09:00
//	---
//
// Times without a zone are read in loc. Kind defaults to task.
func ParseItemDrafts(content string, loc *time.Location) ([]ItemDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitDraftBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoItemsInFile
	}

	drafts := make([]ItemDraft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseDraftBlock(block, loc)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

type draftBlock struct {
	header []string
	body   []string
}

// splitDraftBlocks splits content into frontmatter/body pairs.
// A "---" line followed by a key line opens a new block; any other "---"
// inside a body is kept as text.
func splitDraftBlocks(content string) []draftBlock {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var blocks []draftBlock
	var cur *draftBlock
	inHeader := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			switch {
			case cur == nil || (!inHeader && i+1 < len(lines) && frontmatterKeyPattern.MatchString(lines[i+1])):
				if cur != nil {
					blocks = append(blocks, *cur)
				}
				cur = &draftBlock{}
				inHeader = true
			case inHeader:
				inHeader = false
			default:
				cur.body = append(cur.body, line)
			}
			continue
		}
		if cur == nil {
			continue
		}
		if inHeader {
			cur.header = append(cur.header, line)
		} else {
			cur.body = append(cur.body, line)
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

func parseDraftBlock(b draftBlock, loc *time.Location) (ItemDraft, error) {
	var fm draftFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(b.header, "\n")), &fm); err != nil {
		return ItemDraft{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if strings.TrimSpace(fm.Name) == "" {
		return ItemDraft{}, ErrEmptyName
	}

	kind := KindTask
	if fm.Kind != "" {
		k, err := ParseKind(fm.Kind)
		if err != nil {
			return ItemDraft{}, err
		}
		kind = k
	}

	draft := ItemDraft{
		Kind:     kind,
		Name:     strings.TrimSpace(fm.Name),
		Detail:   strings.TrimSpace(strings.Join(b.body, "\n")),
		Priority: fm.Priority,
		IsUrgent: fm.Urgent,
	}
	if kind == KindLetter {
		draft.LetterCode = fm.LetterCode
		draft.SentTo = fm.SentTo
		draft.LetterType = fm.LetterType
	}

	if fm.Reminder != "" {
		t, err := ParseTime(fm.Reminder, loc)
		if err != nil {
			return ItemDraft{}, fmt.Errorf("reminder: %w", err)
		}
		draft.Reminder = &t
	}
	if fm.Start != "" {
		t, err := ParseTime(fm.Start, loc)
		if err != nil {
			return ItemDraft{}, fmt.Errorf("start: %w", err)
		}
		draft.StartTime = &t
	}
	return draft, nil
}
