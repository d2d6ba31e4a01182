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


// Package search ranks saved items against a free-text query.
//
// The Searcher runs each query through the query analyzer, then scores every
// item with a set of independent signals:
//   - keyword matches in the title, description, tags and URL
//   - timeframe matches, with a penalty for temporal queries that miss
//   - content type matches
//   - a bonus for detailed items when the query is a question
//
// The summed score is scaled by the query's confidence and capped at 100.
// Items scoring zero are dropped; the rest are returned in descending score
// order with keyword occurrences highlighted.
package search
