// Package pipeline runs one search end to end: load the database, index it,
// then stream query batches through a searcher queue into a writer queue.
//
// Phases are strictly ordered. Reading, searching and writing overlap, and
// backpressure flows writer → searcher → reader through the bounded queues.
// Run returns only after both queues have drained and the output is closed.
package pipeline
