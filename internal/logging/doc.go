// Package logging provides the structured logging interface used by the
// fixture coordinator. zerolog backs the default implementation; a standard
// library adapter is available for hosts that already own a *log.Logger.
package logging
