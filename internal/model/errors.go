package model

import "errors"

var (
	// ErrMalformedInput is returned by parsers for files that cannot be decoded.
	// The file is skipped, ingestion continues.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingArtifact marks a result entry whose artifact file is absent or empty.
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrInvalidNetworkSpec is returned when a target or filter is not a network.
	ErrInvalidNetworkSpec = errors.New("invalid network specification")

	// ErrUnknownQueryKind is returned for query kinds the facade does not know.
	ErrUnknownQueryKind = errors.New("unknown query kind")

	// ErrStructuralIO is returned when the results root itself cannot be read.
	ErrStructuralIO = errors.New("results root unreadable")

	// ErrInvalidAttachment is returned for attachment paths failing the uuid guard.
	ErrInvalidAttachment = errors.New("invalid attachment path")
)
