package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() *Item {
	return &Item{
		ID:          "item-1",
		Title:       "React Hooks Guide",
		Description: "A tour of useState and useEffect",
		URL:         "https://react.dev/learn",
		Tags:        []Tag{{Name: "react"}, {Name: "hooks"}},
		CreatedAt:   time.Now().Add(-time.Hour),
		ContentType: ContentTypeArticle,
	}
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr error
	}{
		{name: "valid item", mutate: func(*Item) {}},
		{name: "empty description is fine", mutate: func(i *Item) { i.Description = "" }},
		{name: "missing id is fine before storage", mutate: func(i *Item) { i.ID = "" }},
		{name: "no url", mutate: func(i *Item) { i.URL = "" }},
		{name: "blank title", mutate: func(i *Item) { i.Title = "   " }, wantErr: ErrEmptyTitle},
		{name: "future timestamp", mutate: func(i *Item) { i.CreatedAt = time.Now().Add(time.Hour) }, wantErr: ErrInvalidTimestamp},
		{name: "bad url", mutate: func(i *Item) { i.URL = "http://[::1" }, wantErr: ErrInvalidURL},
		{name: "duplicate tags", mutate: func(i *Item) { i.Tags = []Tag{{Name: "Go"}, {Name: "go"}} }, wantErr: ErrDuplicateTag},
		{name: "blank tag", mutate: func(i *Item) { i.Tags = []Tag{{Name: " "}} }, wantErr: ErrDuplicateTag},
		{name: "unknown content type", mutate: func(i *Item) { i.ContentType = "podcast" }, wantErr: ErrInvalidContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)
			err := ValidateItem(item)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidItem))
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateItem_Nil(t *testing.T) {
	err := ValidateItem(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidItem))
}

func TestValidateStoredItem(t *testing.T) {
	item := validItem()
	assert.NoError(t, ValidateStoredItem(item))

	item.ID = ""
	err := ValidateStoredItem(item)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyID))
}

func TestValidateLengthMode(t *testing.T) {
	for _, mode := range []LengthMode{LengthShort, LengthMedium, LengthLong, LengthBullets} {
		assert.NoError(t, ValidateLengthMode(mode), mode)
	}
	err := ValidateLengthMode("huge")
	assert.True(t, errors.Is(err, ErrInvalidLengthMode))
}

func TestIsValidTimestamp(t *testing.T) {
	assert.True(t, IsValidTimestamp(time.Now().Add(-time.Minute)))
	assert.False(t, IsValidTimestamp(time.Now().Add(time.Minute)))
}
