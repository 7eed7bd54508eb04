// Package render turns a TemplateConfig snapshot into an ordered page plan of
// section and CTA-slot instructions, and defines the Renderer contract output
// formats implement. Planning is a pure function of the snapshot.
package render
