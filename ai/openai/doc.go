// Package openai implements the ai service contracts over OpenAI-compatible
// APIs: embeddings via the configured embedding model and chat completion
// via the configured chat model. A custom BaseURL points both at any
// OpenAI-compatible server.
package openai
