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

import "errors"

// Domain error taxonomy. Configuration and ingestion-data errors halt a
// process; upstream errors are per-request; telemetry errors are isolated.
var (
	// ErrConfiguration indicates missing or invalid required configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstreamUnavailable indicates a retrieval or generation backend
	// that has not been initialized. Surfaced to callers as retryable.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrUpstreamCall indicates an embedding, vector-store, or chat-model
	// call that failed after retries.
	ErrUpstreamCall = errors.New("upstream call failed")

	// ErrIngestionData indicates a malformed source row. Fatal to the
	// ingestion run to avoid silent data loss in the knowledge base.
	ErrIngestionData = errors.New("malformed ingestion data")

	// ErrInvalidSourceRow indicates a SourceRow failed validation.
	ErrInvalidSourceRow = errors.New("invalid source row")

	// ErrInvalidMessage indicates a conversation Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidRole indicates an unknown message role value.
	ErrInvalidRole = errors.New("invalid message role")

	// ErrEmptyQuestion indicates an empty question string.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)
