// Package domain contains core concepts of the ambient chat system.
package domain

// SenderKind discriminates who authored a stored or broadcast message.
type SenderKind string

const (
	SenderUser    SenderKind = "user"
	SenderPersona SenderKind = "persona"
)
