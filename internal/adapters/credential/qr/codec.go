// Package qr encodes voter credentials as QR codes and reads them back from
// uploaded images.
package qr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

// Negative sizes make go-qrcode scale by module instead of by image width.
const pixelsPerModule = -10

type Codec struct {
	level qrcode.RecoveryLevel
}

func NewCodec() ports.CredentialCodec {
	return &Codec{level: qrcode.Low}
}

// Encode returns a PNG of identity:secretHash.
func (c *Codec) Encode(identity, secretHash string) ([]byte, error) {
	code, err := qrcode.New(domain.NewCredentialPayload(identity, secretHash), c.level)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr code: %w", err)
	}

	png, err := code.PNG(pixelsPerModule)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// Decode never fails loudly: an unreadable image is reported as ("", false).
func (c *Codec) Decode(data []byte) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil || result.GetText() == "" {
		return "", false
	}
	return result.GetText(), true
}
