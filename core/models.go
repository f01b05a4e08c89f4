// Copyright 2026 Jovian Atlas
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
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for retrievable chunks.
// It is generated by content-based hashing so that re-ingesting the same
// content always produces the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs, which makes vector upserts idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String returns the canonical string form used as the vector id in the index.
func (id ID) String() string {
	return fmt.Sprintf("chunk-%016x", uint64(id))
}

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message written by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the assistant.
	RoleAssistant Role = "assistant"
)

// SourceRow is one fact about one moon, read from the source table.
// All fields are required; a row missing any of them is rejected at
// ingestion time rather than silently skipped.
type SourceRow struct {
	MoonName  string
	Title     string
	Content   string
	SourceURL string
}

// EntityDocument is the combined content for a single moon, built by
// grouping every SourceRow that shares the moon's name. Row order within
// the group is preserved in the concatenated content.
type EntityDocument struct {
	MoonName  string
	Content   string
	Metadata  map[string]any
	SourceURL string // first row's URL, used as the primary source
}

// Metadata keys attached to documents and chunks.
const (
	MetaMoonName      = "moon_name"
	MetaDocumentCount = "document_count"
	MetaSourceURLs    = "source_urls"
)

// Chunk is the unit of embedding, storage, and retrieval.
// Chunks are immutable once created.
type Chunk struct {
	Id        ID
	Text      string
	Metadata  map[string]any
	SourceURL string
}

// Message is a single turn of conversation history.
// History is appended to, never mutated, and passed in full on every
// request; the server holds no session state.
type Message struct {
	Role     Role           `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RetrievalResult is the outcome of one retrieve-then-generate cycle.
// Context holds the text of every chunk that was actually placed in the
// generation prompt, in retrieval rank order.
type RetrievalResult struct {
	Answer  string
	Context []string
}
