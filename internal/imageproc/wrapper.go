package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/leca/image-cdn/internal/model"
)

var wrapperTmpl = template.Must(template.New("wrapper").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body {
	background: #222;
	display: flex;
	align-items: center;
	justify-content: center;
	height: 100vh;
	margin: 0;
}
img {
	max-width: 100%;
	max-height: 100%;
}
</style>
</head>
<body>
<img src="{{.Source}}" alt="{{.Title}}" width="{{.Width}}" height="{{.Height}}"/>
</body>
</html>
`))

// DataURI encodes the image as a base64 data URI.
func DataURI(img *model.Image) string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// RenderWrapper builds an HTML page that displays img inline at the given
// width and height.
func RenderWrapper(img *model.Image, width, height int) (string, error) {
	var buf bytes.Buffer
	err := wrapperTmpl.Execute(&buf, struct {
		Title  string
		Source template.URL
		Width  int
		Height int
	}{
		Title:  img.Filename(),
		Source: template.URL(DataURI(img)),
		Width:  width,
		Height: height,
	})
	if err != nil {
		return "", fmt.Errorf("rendering wrapper: %w", err)
	}
	return buf.String(), nil
}
