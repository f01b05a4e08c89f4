// Package ai defines the contracts for the external model services this
// system orchestrates: an Embedder turning text into fixed-length vectors
// and a Generator turning an assembled prompt into an answer. Both are
// treated as black boxes; concrete implementations live in subpackages.
//
// The openai subpackage implements the contracts over OpenAI-compatible
// APIs. The mock subpackage provides deterministic test doubles.
package ai
