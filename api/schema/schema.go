// Package schema carries the JSON schemas of the outbound provider protocol.
package schema

import _ "embed"

const ProviderV1Name = "provider_v1.schema.json"

//go:embed provider_v1.schema.json
var ProviderV1 string
