package tracing

// Span names.
const (
	SpanDecoratorUpdate = "decorator.update"
	SpanCheckboxScan    = "checkbox.scan"
)

// Span attribute keys.
const (
	AttrDocumentPath  = "document.path"
	AttrDocumentBytes = "document.bytes"
	AttrTrigger       = "scan.trigger"
	AttrDone          = "scan.done"
	AttrNotDone       = "scan.not_done"
	AttrInProgress    = "scan.in_progress"
	AttrChanges       = "scan.changes"
	AttrSkipReason    = "scan.skip_reason"
)
