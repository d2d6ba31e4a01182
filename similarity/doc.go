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


// Package similarity compares pairs of saved items.
//
// Four signals are computed for every pair, each in [0,1]:
//   - tag overlap (Jaccard index of lowercase tag names)
//   - semantic overlap (Jaccard index of words longer than three characters)
//   - temporal proximity (a step function of the day difference)
//   - URL proximity (same host or same registrable domain)
//
// Overall blends semantic, tag and URL scores 0.5/0.3/0.2. Identical titles
// force 0.95 and identical URLs force 0.9.
//
// An Engine configured WithEmbedder replaces the lexical semantic signal with
// the cosine similarity of item embeddings. Embedding calls are bounded by a
// timeout and fall back to the lexical score on any failure.
package similarity
