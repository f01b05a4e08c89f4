// Package vectorstore defines the contract for the managed vector index:
// upsert (id, vector, metadata) triples and similarity-query the k nearest
// stored vectors. The index itself is an external service; this package
// only shapes the data flowing in and out of it.
//
// The pinecone subpackage implements the contract against a Pinecone
// serverless index. The mock subpackage provides an in-memory store for
// tests.
package vectorstore
