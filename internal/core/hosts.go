package core

import (
	"gopkg.in/yaml.v3"

	"skerry/internal/types"
)

// ParseHosts extracts the flat hosts section: one environment to address
// pair per entry, in source order.
func ParseHosts(root *yaml.Node) ([]types.Host, error) {
	section := mappingValue(root, "hosts")
	if !isMapping(section) {
		return nil, types.ErrHostsNotFound
	}
	var hosts []types.Host
	err := mappingPairs(section, func(key, value *yaml.Node) error {
		env, ok := scalarString(key)
		if !ok {
			return types.ErrMissingHostEnv
		}
		address, ok := scalarString(value)
		if !ok {
			return &types.MissingHostAddressError{Env: env}
		}
		hosts = append(hosts, types.Host{Env: env, Address: address})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hosts, nil
}
