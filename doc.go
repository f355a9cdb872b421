// Package docchat implements a document-grounded chat pipeline: a PDF (or
// HTML, Markdown, plain text) upload is split into chunks and pushed to a
// remote search index, after which queries retrieve matching chunks and an
// LLM answers from that retrieved context.
//
// The index holds one document at a time. Each upload clears the previous
// records before uploading the new set. Until the first successful upload
// the assistant answers ungrounded, from the model alone.
package docchat
