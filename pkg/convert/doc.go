/*
Package convert turns C headers into Rust source.

A Rewriter opens an input through a source.Source, hands the text to an
Engine and writes the result next to the input:

	sample.h ──▶ Engine ──▶ stdout
	                  └───▶ sample.h_rust

Two engines exist. RuleEngine runs the ordered regex pipeline from
package rules and is the default. StructuredEngine parses struct
declarations with package cstruct and classifies every line it sees, which
is what the check command reports.

ConvertAll runs several inputs at once and still prints them in the order
they were given.
*/
package convert
