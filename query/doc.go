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


// Package query interprets free-text search queries.
//
// Analyze turns a query into a core.QueryDescriptor carrying:
//   - intent (search, question, filter, temporal, categorical)
//   - up to ten keywords with stop words removed
//   - an optional timeframe and content type
//   - a sentiment tag and a confidence score
//
// Analysis never fails. Text with no recognizable structure yields a
// search-intent descriptor with no keywords and low confidence.
package query
