// Package optimize rewrites a slide-deck document model so that a
// screen-reader traversal communicates meaning instead of layout.
//
// The Optimizer runs a fixed sequence of passes over the deck: decorative
// suppression, footnote inlining, redundancy removal, table naturalization,
// chart description, speaker-note contextualization, complex-slide
// summarization, and finally reading-order resequencing. Passes hide,
// consume, reorder, and synthesize blocks; they never delete them and never
// touch block IDs or origin slide indices. Running the sequence twice over
// an already-optimized deck is a no-op on the visible block sequences.
//
// Per-slide passes with no cross-slide data dependency fan out on a bounded
// worker pool; footnote inlining and redundancy removal are inherently
// order-dependent and run sequentially.
package optimize
