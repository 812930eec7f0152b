// Package receipt personalizes donation-receipt documents and composites
// them onto a pre-printed letterhead page.
//
// # Quick Start
//
// Create a generator and produce one receipt per donor record:
//
//	gen, err := receipt.NewGenerator(
//	    receipt.WithOrganization("Example Fund"),
//	    receipt.WithLetterheadPath("/assets/letterhead.pdf"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := gen.Generate(ctx, receipt.Input{
//	    Donor: receipt.NewDonorRecord(
//	        receipt.Field{Name: "First Name", Value: "Jane"},
//	        receipt.Field{Name: "Last Name", Value: "Doe"},
//	        receipt.Field{Name: "Donation Amount", Value: "250.00"},
//	    ),
//	    Template:  "Dear {First Name} {Last Name},\n\n**Thank you** for ${Donation Amount}.",
//	    OutputDir: "receipts",
//	})
//
// The result holds the path of the written PDF and any unresolved
// placeholder warnings.
//
// # Generation Pipeline
//
// Each receipt goes through these stages:
//
//  1. Placeholder substitution ({First Name}, {Donation Amount}, {Date})
//  2. Markup normalization (**x**, <b>, <i> into canonical <strong>/<em>)
//  3. Inline formatting parsing into styled segments
//  4. Word-wrap layout into a fixed content box clearing the masthead
//  5. Page rendering onto a blank content surface
//  6. Composition of the surface onto the letterhead background
//
// Templates with no markup at all are treated as Markdown, so plain-text
// templates with **bold** spans and "- item" lists work unchanged.
//
// # Fallback Chain
//
// Generate never leaves a donor without a receipt while any strategy can
// still produce one. Strategies run in a fixed order: the full structured
// pipeline, then a coarser tier that bolds recognizable paragraphs by
// keyword, then a bare tier that emits plain wrapped text and skips the
// letterhead. Each failure is logged and falls through; only exhaustion
// of every tier returns an error.
//
// # Letterhead
//
// The letterhead is located by a prioritized search: an explicit
// WithLetterheadPath override, then the working directory, the executable
// directory, and the user config directory. A missing letterhead is not
// an error; the content surface alone becomes the receipt.
package receipt
