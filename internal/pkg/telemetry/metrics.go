package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerConversion = "gridcalc/conversion"
	TracerBatch      = "gridcalc/batch"

	AttrOperation  = "gridcalc.operation"
	AttrZone       = "gridcalc.zone"
	AttrSourceCRS  = "gridcalc.crs.source"
	AttrTargetCRS  = "gridcalc.crs.target"
	AttrFallback   = "gridcalc.fallback"
	AttrBatchID    = "gridcalc.batch.id"
	AttrBatchRows  = "gridcalc.batch.rows"
	AttrBatchFails = "gridcalc.batch.failed"
)
