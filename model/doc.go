// Package model defines the slide-deck document model that flows through the
// accessibility pipeline: a Deck of Slides, each holding an ordered sequence
// of typed content Blocks.
//
// The model is pure data. The pptx package constructs it, the optimize
// package rewrites it in place, and the render package consumes the final
// per-slide reading order. Blocks are never deleted once constructed: passes
// hide or consume them, which removes them from the reading order but keeps
// them addressable for auditing.
package model
