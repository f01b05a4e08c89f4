// Package mock provides an in-memory test double for the vectorstore
// contract. It ranks queries by cosine similarity so retrieval tests
// behave like the real index without any network dependency.
package mock
