// Package tracker holds the package record and every calculation derived
// from it: progress, routing progress, phase inference, enclosures, and the
// status mutations the UI performs.
//
// Document and routing lists are cloned from a template when a package is
// created and are never grown or shrunk afterwards; only their fields change.
package tracker
