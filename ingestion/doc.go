// Package ingestion implements the offline pipeline that turns the moon
// facts table into stored vectors: parse the tab-separated source, group
// rows into one document per moon, split documents on top-level heading
// boundaries, embed chunk texts in bounded batches, and upsert the
// results into the vector index.
//
// The pipeline is strictly sequential. An optional Badger-backed cache
// skips provider calls for chunks whose content-derived id was embedded
// with the same model on a previous run.
package ingestion
