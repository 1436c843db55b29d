package core

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// QRData encodes an attendance payload as a comma-joined "<entityId>,<eventId>"
// string. The entity is a user for individual events and a team for team events.
func QRData(entityID, eventID string) string {
	return entityID + "," + eventID
}

// ParseQRData decodes a scanned attendance payload.
func ParseQRData(data string) (entityID, eventID string, err error) {
	parts := strings.SplitN(strings.TrimSpace(data), ",", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", NewValidationError(errors.New("invalid QR data"))
	}
	return parts[0], parts[1], nil
}

// QRCodePNG renders the payload as a scannable PNG.
func QRCodePNG(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	return png, errors.Wrap(err, "encoding QR code")
}

// NewRegistrationEmail builds the confirmation email carrying the attendance QR code.
func NewRegistrationEmail(to mail.Address, eventName string, qrPNG []byte) (*EmailMessage, error) {
	msg := &EmailMessage{
		To:      []mail.Address{to},
		Subject: fmt.Sprintf("Registration Confirmed for %s", eventName),
		TextContent: fmt.Sprintf(
			"Congratulations! You have registered for %s.\n"+
				"The attached QR code will be scanned at the event entrance for attendance.\n"+
				"See you at the event!", eventName),
		HTMLContent: fmt.Sprintf(
			"<h2>Congratulations! You have registered for %s.</h2>"+
				"<p>Scan the QR code below at the event entrance:</p>"+
				"<p><strong>Event:</strong> %s</p>"+
				"<p>QR Code will be used for attendance</p>"+
				"<p>See you at the event!</p>", eventName, eventName),
	}
	if err := msg.Attach(bytes.NewReader(qrPNG), "qrcode.png", "image/png"); err != nil {
		return nil, errors.Wrap(err, "attaching QR code")
	}
	return msg, nil
}
