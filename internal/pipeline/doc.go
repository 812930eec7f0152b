// Package pipeline implements the text-processing stages of receipt
// generation: placeholder substitution, markup normalization, inline
// formatting parsing, and line layout.
//
// Stages are pure functions over strings and segments so they can be
// tested without a PDF backend. The processing order is:
//
//  1. Substitute - replace {Field} placeholders with donor/system values
//  2. Normalize  - canonicalize emphasis markup into <strong>/<em> tags
//     and block structure into paragraph-break markers
//  3. Parse      - tokenize normalized text into styled segments
//  4. Layout     - word-wrap segments into lines within a content box
//
// Width measurement is abstracted behind the Measurer interface; the
// production implementation measures with the PDF backend's font metrics.
package pipeline
