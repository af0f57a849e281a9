// Package ui defines the color themes used by terminal reports and honors the
// NO_COLOR convention.
package ui
