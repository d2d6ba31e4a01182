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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates an Item failed validation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("item id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("item title cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidURL indicates the URL field cannot be parsed.
	ErrInvalidURL = errors.New("invalid item url")

	// ErrDuplicateTag indicates two tags share a name.
	ErrDuplicateTag = errors.New("duplicate tag name")

	// ErrInvalidContentType indicates an unknown ContentType value.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidLengthMode indicates an unknown LengthMode value.
	ErrInvalidLengthMode = errors.New("invalid summary length mode")
)
