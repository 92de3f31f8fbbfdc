package core

import (
	"gopkg.in/yaml.v3"

	"skerry/internal/types"
)

// ParseVersioning extracts the API versioning policy.  Only header-based
// versioning is supported.
func ParseVersioning(root *yaml.Node) (types.Versioning, error) {
	section := mappingValue(root, "versioning")
	format, ok := scalarString(mappingValue(section, "format"))
	if !ok {
		return types.Versioning{}, types.ErrVersioningNotFound
	}
	if types.VersioningFormat(format) != types.VersioningHeaders {
		return types.Versioning{}, &types.UnsupportedVersioningFormatError{Format: format}
	}
	header, ok := scalarString(mappingValue(section, "header"))
	if !ok {
		return types.Versioning{}, types.ErrMissingVersionHeader
	}
	return types.Versioning{Format: types.VersioningHeaders, Header: header}, nil
}
