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


// Package sift is a content intelligence and search engine for a personal
// collection of saved items (articles, videos, documents, images, notes).
//
// The Engine type is the library surface: it analyzes free-text queries,
// ranks items against them with highlighted matches and explanations,
// finds related items and duplicate clusters, produces extractive
// summaries and suggests example queries. Engine operations are
// synchronous, never return errors and hold no state between calls.
//
// The Database type wires the engine to a badger-backed item store, an
// OpenAI-compatible embedding service and a background ingestion pipeline:
//
//	db, err := sift.NewDatabase("/path/to/db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	engine, err := db.NewEngine()
//	items, err := db.ItemRepository().ListItems(ctx)
//	results := engine.Search("react videos from last week", items)
package sift
