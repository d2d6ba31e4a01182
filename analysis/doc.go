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


// Package analysis finds relationships between saved items.
//
// RelatedTo emits typed links from one item to the others in a collection,
// one per similarity signal that clears its threshold. FindDuplicates groups
// near-duplicates of an anchor item into clusters and picks a primary member
// for each.
//
// Both operations are pure functions of their inputs and the analyzer's
// clock. They never return errors: degenerate inputs produce empty results.
package analysis
