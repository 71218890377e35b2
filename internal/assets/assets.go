package assets

import (
	"embed"
	"io/fs"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BoldTTF is the face used on key tiles; RegularTTF is used for deck status text.
var (
	BoldTTF    = gobold.TTF
	RegularTTF = goregular.TTF
)

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
// It contains the settings page served at '/'.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}
