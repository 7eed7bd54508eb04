// Package model defines the site-template configuration document edited by the
// builder dashboard: the navbar, the ordered content sections, the CTA library
// and the placements that reference it, typography, SEO defaults and the
// optional page settings that drive navbar synthesis.
//
// Every mutation helper in this package is pure. Helpers return a Partial that
// names the top-level keys they replace, so callers apply each edit as a single
// top-level merge (see TemplateConfig.Apply). Section variants are decoded from
// the persisted field bags into typed structs that carry documented defaults;
// unknown section types decode into UnknownSection so rendering stays total.
package model
