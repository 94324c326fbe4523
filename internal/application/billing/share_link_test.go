package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
)

const docURL = "https://files.example.com/q.pdf"

func TestBuildShareLink(t *testing.T) {
	cases := []struct {
		name      string
		channel   billing.ShareChannel
		recipient string
		want      string
	}{
		{"whatsapp", billing.ShareWhatsApp, "+1 (555) 010-9999",
			"https://wa.me/15550109999?text=Hello%20there%20https%3A%2F%2Ffiles.example.com%2Fq.pdf"},
		{"email", billing.ShareEmail, "jane@example.com",
			"mailto:jane@example.com?subject=Your%20quotation&body=Hello%20there%20https%3A%2F%2Ffiles.example.com%2Fq.pdf"},
		{"link", billing.ShareLink, "", docURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := billing.BuildShareLink(tc.channel, tc.recipient, "Your quotation", "Hello there", docURL)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildShareLink_DestinatarioInvalido(t *testing.T) {
	_, err := billing.BuildShareLink(billing.ShareWhatsApp, "sin número", "", "hi", docURL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.BuildShareLink(billing.ShareEmail, "jane.example.com", "", "hi", docURL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.BuildShareLink(billing.ShareChannel("sms"), "1", "", "hi", docURL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
