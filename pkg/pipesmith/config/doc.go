// Package config loads grids from YAML, JSON or HCL files.
//
// A grid file names implementations instead of holding them. A Registry maps those names to the handles stored in
// the variants, and Build turns a Grid and a Registry into a pipesmith.Model.
//
// In YAML and JSON, a variant is either a bare implementation name, null for the absent variant, or a mapping with
// impl, tags and absent keys:
//
//	steps:
//	  - label: vectorizer
//	    variants:
//	      - impl: tfidf
//	        tags: {kind: sparse}
//	      - null
//	conditions:
//	  - condition: require_if_label
//	    target_step: vectorizer
//	    label: {kind: sparse}
//	    required_steps: [reducer]
//
// In HCL, steps and conditions are blocks:
//
//	step "vectorizer" {
//	  variant {
//	    impl = "tfidf"
//	    tags = { kind = "sparse" }
//	  }
//	  variant {}
//	}
//
//	condition "require_if_label" {
//	  target_step    = "vectorizer"
//	  label          = { kind = "sparse" }
//	  required_steps = ["reducer"]
//	}
package config
