package catalogs

import "embed"

// FS contains the default installation catalog shipped with the binary.
//
//go:embed *.toml
var FS embed.FS
