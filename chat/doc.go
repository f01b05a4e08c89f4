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


// Package chat answers questions about Jupiter's moons with
// retrieval-augmented generation.
//
// The Orchestrator type runs one turn end to end:
//   - Embed the question and retrieve the nearest chunks from the index
//   - Assemble a prompt from the system instruction, the conversation
//     history, and the retrieved context
//   - Make a single chat-model call and return the answer together with
//     exactly the context texts that were placed in the prompt
//
// Retrieval always runs against the standalone question; the conversation
// history shapes the prompt but never the query vector.
package chat
