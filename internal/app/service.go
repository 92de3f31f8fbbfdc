package app

import (
	"skerry/internal/adapters"
	"skerry/internal/ports"
)

// Service wires the document loader into the parse pipeline.  All state
// lives inside a single request; the service itself is reusable.
type Service struct {
	Documents ports.DocumentLoader
}

func NewService() Service {
	return Service{Documents: adapters.NewDocumentFileAdapter()}
}
