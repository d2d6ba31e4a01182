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


package similarity

import "errors"

var (
	// ErrInvalidTimeout is returned when WithTimeout is given a non-positive duration.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidThreshold is returned when WithFailureThreshold is given zero.
	ErrInvalidThreshold = errors.New("failure threshold must be positive")

	// ErrInvalidCooldown is returned when WithCooldown is given a non-positive duration.
	ErrInvalidCooldown = errors.New("cooldown must be positive")

	// ErrDimensionMismatch is returned when two vectors have different lengths.
	ErrDimensionMismatch = errors.New("vector dimensions do not match")

	// ErrZeroVector is returned when a vector has no magnitude.
	ErrZeroVector = errors.New("zero vector")
)
