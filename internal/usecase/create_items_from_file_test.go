package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

const draftFile = `---
name: Prepare report
priority: 7
---
Collect the numbers.

---
kind: letter
name: Budget approval
code: HTS-12
sentTo: finance
letterType: request
reminder: 2024-03-12 09:00
---
Needs a signature.`

func newFromFile(persist *testutil.MockPersistence, now time.Time) *usecase.CreateItemsFromFile {
	cfg := domain.NewDefaultConfig()
	cfg.Location = ast
	create := usecase.NewCreateItem(persist, "", clockAt(now), nil)
	return usecase.NewCreateItemsFromFile(create, &testutil.MockConfigLoader{Config: cfg})
}

func TestCreateItemsFromFile_Execute(t *testing.T) {
	// Setup
	persist := testutil.NewMockPersistence(domain.StoreLocal)
	now := at(2024, time.March, 10, 12, 0)

	// Execute
	out, err := newFromFile(persist, now).Execute(context.Background(), usecase.CreateItemsFromFileInput{Content: draftFile})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	report := out.Items[0]
	assert.Equal(t, domain.KindTask, report.Kind)
	assert.Equal(t, 7, report.Priority)
	assert.Equal(t, "Collect the numbers.", report.Detail)
	assert.Equal(t, 1, report.Number)

	l := out.Items[1]
	assert.Equal(t, domain.KindLetter, l.Kind)
	assert.Equal(t, "HTS-12", l.Letter.LetterCode)
	assert.Equal(t, "finance", l.Letter.SentTo)
	assert.True(t, l.Reminder.Equal(at(2024, time.March, 12, 9, 0)))
	assert.Len(t, persist.ItemRepo.Items, 2)
}

func TestCreateItemsFromFile_Execute_DryRun(t *testing.T) {
	persist := testutil.NewMockPersistence(domain.StoreLocal)

	out, err := newFromFile(persist, at(2024, time.March, 10, 12, 0)).Execute(context.Background(), usecase.CreateItemsFromFileInput{Content: draftFile, DryRun: true})

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Budget approval", out.Items[1].Name)
	assert.Equal(t, 2, out.Items[1].Number)
	assert.Empty(t, persist.ItemRepo.Items)
}

func TestCreateItemsFromFile_Execute_Errors(t *testing.T) {
	now := at(2024, time.March, 10, 12, 0)

	t.Run("dry run rejects priority", func(t *testing.T) {
		persist := testutil.NewMockPersistence(domain.StoreLocal)
		_, err := newFromFile(persist, now).Execute(context.Background(), usecase.CreateItemsFromFileInput{
			Content: "---\nname: x\npriority: 12\n---\n",
			DryRun:  true,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
		assert.ErrorContains(t, err, "item 1")
	})

	t.Run("stops at first failure", func(t *testing.T) {
		persist := testutil.NewMockPersistence(domain.StoreLocal)
		content := "---\nname: first\n---\n\n---\nname: second\npriority: 12\n---\n"

		out, err := newFromFile(persist, now).Execute(context.Background(), usecase.CreateItemsFromFileInput{Content: content})

		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
		assert.ErrorContains(t, err, "item 2")
		require.NotNil(t, out)
		assert.Len(t, out.Items, 1)
		assert.Len(t, persist.ItemRepo.Items, 1)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := newFromFile(testutil.NewMockPersistence(domain.StoreLocal), now).Execute(context.Background(), usecase.CreateItemsFromFileInput{Content: " "})
		assert.ErrorIs(t, err, domain.ErrEmptyFile)
	})

	t.Run("config unreadable", func(t *testing.T) {
		create := usecase.NewCreateItem(testutil.NewMockPersistence(domain.StoreLocal), "", clockAt(now), nil)
		uc := usecase.NewCreateItemsFromFile(create, &testutil.MockConfigLoader{Err: assert.AnError})
		_, err := uc.Execute(context.Background(), usecase.CreateItemsFromFileInput{Content: draftFile})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
