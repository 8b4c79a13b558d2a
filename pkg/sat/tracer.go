package sat

import "github.com/operator-framework/rostersat/internal/engine"

// Assignment is an entry of the search trail: a variable index, its
// value and the decision level it was made at.
type Assignment = engine.Assignment

// SearchPosition is handed to a Tracer on every conflict.
type SearchPosition = engine.SearchPosition

type Tracer = engine.Tracer

// DefaultTracer discards every position.
type DefaultTracer = engine.DefaultTracer

// LoggingTracer writes the decisions and the conflicting constraint of
// every conflict to Writer.
type LoggingTracer = engine.LoggingTracer
