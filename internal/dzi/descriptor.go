package dzi

import (
	"strings"
	"text/template"
)

// descriptorTemplate renders the DZI XML descriptor exactly as spec.md §6
// specifies, in the teacher pool's style of templating fixed XML/JSON shapes
// (see the deepzoom reference tool's DZITemplate) rather than ad hoc string
// concatenation.
var descriptorTemplate = template.Must(template.New("dzi").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<Image xmlns="http://schemas.microsoft.com/deepzoom/2008"
    TileSize="{{.TileSize}}"
    Overlap="{{.Overlap}}"
    Format="jpg">
    <Size Width="{{.Width}}" Height="{{.Height}}"/>
</Image>`))

type descriptorData struct {
	TileSize, Overlap, Width, Height int
}

func descriptorXML(tileSize, overlap, width, height int) string {
	var b strings.Builder
	data := descriptorData{TileSize: tileSize, Overlap: overlap, Width: width, Height: height}
	if err := descriptorTemplate.Execute(&b, data); err != nil {
		panic(err) // template is a compile-time constant; execution cannot fail
	}
	return b.String()
}
