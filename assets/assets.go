// Package assets embeds the bundled effect files so tools can run without a
// checkout of the assets directory.
package assets

import "embed"

// Effects holds effects/*.yaml.
//
//go:embed effects/*.yaml
var Effects embed.FS

// DefaultEffectFile is the path of the bundled demo effects inside Effects.
const DefaultEffectFile = "effects/demo.yaml"
