package domain

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger routes the package's diagnostics to l.
func SetLogger(l zerolog.Logger) { logger = l.With().Str("component", "domain").Logger() }
