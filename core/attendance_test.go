package core

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_QRData(t *testing.T) {
	payload := QRData("64a1b2c3d4e5f60718293a4b", "64a1b2c3d4e5f60718293a4c")
	assert.Equal(t, "64a1b2c3d4e5f60718293a4b,64a1b2c3d4e5f60718293a4c", payload)

	entityID, eventID, err := ParseQRData(payload)
	require.NoError(t, err)
	assert.Equal(t, "64a1b2c3d4e5f60718293a4b", entityID)
	assert.Equal(t, "64a1b2c3d4e5f60718293a4c", eventID)
}

func Test_ParseQRData_invalid(t *testing.T) {
	for _, data := range []string{"", "justoneid", ",missing-entity", "missing-event,", "  ,  "} {
		t.Run(data, func(t *testing.T) {
			_, _, err := ParseQRData(data)
			assert.IsType(t, &ValidationError{}, err)
		})
	}
}

func Test_QRCodePNG(t *testing.T) {
	png, err := QRCodePNG("64a1b2c3d4e5f60718293a4b,64a1b2c3d4e5f60718293a4c")
	require.NoError(t, err)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func Test_NewRegistrationEmail(t *testing.T) {
	png, err := QRCodePNG("id,event")
	require.NoError(t, err)

	msg, err := NewRegistrationEmail(mail.Address{Name: "Dana", Address: "dana@chitkara.edu.in"}, "Byte Battle", png)
	require.NoError(t, err)

	assert.True(t, msg.HasRecipients())
	assert.True(t, msg.HasContent())
	assert.Contains(t, msg.Subject, "Byte Battle")
	require.True(t, msg.HasAttachments())
	assert.Equal(t, "qrcode.png", msg.Attachments[0].Filename)
	assert.Equal(t, "image/png", msg.Attachments[0].ContentType)
}
