package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for docchat observability spans and metrics.
var (
	AttrLLMModel    = attribute.Key("llm.model")
	AttrLLMProvider = attribute.Key("llm.provider")

	AttrTokensInput  = attribute.Key("llm.tokens.input")
	AttrTokensOutput = attribute.Key("llm.tokens.output")

	AttrIndexName   = attribute.Key("search.index")
	AttrSearchTopK  = attribute.Key("search.top_k")
	AttrResultCount = attribute.Key("search.results")
	AttrChunkCount  = attribute.Key("index.chunks")
	AttrIndexOp     = attribute.Key("index.operation")
)
