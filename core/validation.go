// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - Title must not be blank
//   - CreatedAt must not be in the future
//   - URL, when set, must parse
//   - Tag names must be unique (case-insensitive) and non-blank
//   - ContentType must be empty or a known value
//
// NOT validated:
//   - ID (storage assigns one when empty; use ValidateStoredItem afterwards)
//   - Description (may be empty)
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyTitle)
	}

	if !IsValidTimestamp(item.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrInvalidTimestamp)
	}

	if item.URL != "" {
		if _, err := url.Parse(item.URL); err != nil {
			return fmt.Errorf("%w: %w: %s", ErrInvalidItem, ErrInvalidURL, err)
		}
	}

	if err := ValidateTags(item.Tags); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if err := ValidateContentType(item.ContentType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	return nil
}

// ValidateStoredItem validates an item that must already carry an ID.
func ValidateStoredItem(item *Item) error {
	if err := ValidateItem(item); err != nil {
		return err
	}
	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyID)
	}
	return nil
}

// ValidateTags checks tag names are non-blank and unique ignoring case.
func ValidateTags(tags []Tag) error {
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		if name == "" {
			return fmt.Errorf("%w: blank tag name", ErrDuplicateTag)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTag, tag.Name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateContentType validates that a ContentType is empty or known.
func ValidateContentType(ct ContentType) error {
	switch ct {
	case ContentTypeNone, ContentTypeArticle, ContentTypeVideo,
		ContentTypeDocument, ContentTypeImage, ContentTypeNote:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidContentType, string(ct))
}

// ValidateLengthMode validates that a LengthMode is known.
func ValidateLengthMode(mode LengthMode) error {
	switch mode {
	case LengthShort, LengthMedium, LengthLong, LengthBullets:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLengthMode, string(mode))
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
