// Package pinecone implements the vectorstore contract against a Pinecone
// serverless index. The store creates its index on first use (cosine
// metric, the embedding model's dimension) and writes in batches of 100.
package pinecone
