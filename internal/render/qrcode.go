package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCodeImage returns a sizePx square QR code for payload, dark on
// white. An empty payload returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (*image.RGBA, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = KeySize
	}
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qr.ForegroundColor = color.Black
	qr.BackgroundColor = color.White

	out := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	DrawImageInRect(out, out.Bounds(), qr.Image(sizePx), ScaleModeStretch)
	return out, nil
}
