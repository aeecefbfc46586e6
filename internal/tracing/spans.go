package tracing

// Span attribute keys for construction tracing.
const (
	AttrUnitID       = "unit.id"
	AttrTemplateName = "template.name"
	AttrTemplateExp  = "template.export"
	AttrIngredient   = "ingredient.name"
	AttrChainID      = "build.chain_id"
	AttrBuildDepth   = "build.depth"
	AttrErrorType    = "error.type"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixConstruct  = "construct."
	SpanPrefixIngredient = "ingredient."
)

// Event names for span events.
const (
	EventUnitSealed = "unit.sealed"
)
