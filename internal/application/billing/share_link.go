package billing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
)

// ShareChannel canal por el que se comparte un documento subido.
type ShareChannel string

const (
	ShareWhatsApp ShareChannel = "whatsapp"
	ShareEmail    ShareChannel = "email"
	ShareLink     ShareChannel = "link"
)

func (c ShareChannel) Valid() bool {
	return c == ShareWhatsApp || c == ShareEmail || c == ShareLink
}

// BuildShareLink arma el enlace para compartir documentURL:
//
//	whatsapp → https://wa.me/<dígitos>?text=<mensaje + url>
//	email    → mailto:<correo>?subject=<asunto>&body=<mensaje + url>
//	link     → documentURL
func BuildShareLink(channel ShareChannel, recipient, subject, message, documentURL string) (string, error) {
	if err := ValidateRecipient(channel, recipient); err != nil {
		return "", err
	}
	text := strings.TrimSpace(message + " " + documentURL)
	switch channel {
	case ShareWhatsApp:
		return "https://wa.me/" + digitsOnly(recipient) + "?text=" + escape(text), nil
	case ShareEmail:
		return "mailto:" + strings.TrimSpace(recipient) + "?subject=" + escape(subject) + "&body=" + escape(text), nil
	}
	return documentURL, nil
}

// ValidateRecipient comprueba canal y destinatario antes de generar o subir nada.
// El canal link no necesita destinatario.
func ValidateRecipient(channel ShareChannel, recipient string) error {
	if !channel.Valid() {
		return fmt.Errorf("%w: canal %q", domain.ErrInvalidInput, channel)
	}
	switch channel {
	case ShareWhatsApp:
		if digitsOnly(recipient) == "" {
			return fmt.Errorf("%w: teléfono %q", domain.ErrInvalidInput, recipient)
		}
	case ShareEmail:
		if !strings.Contains(strings.TrimSpace(recipient), "@") {
			return fmt.Errorf("%w: correo %q", domain.ErrInvalidInput, recipient)
		}
	}
	return nil
}

// escape codifica para query string con %20 en lugar de '+' (clientes de correo y WhatsApp).
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
