package dto

// DocumentRequest body para POST /api/quotes/:id/document.
type DocumentRequest struct {
	Kind            string `json:"kind" validate:"omitempty,oneof=quotation proforma"`
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email" validate:"omitempty,email"`
	Advance         string `json:"advance" validate:"omitempty,numeric"`
}

// ShareRequest body para POST /api/quotes/:id/share.
// Recipient: teléfono para whatsapp, correo para email; ignorado para link.
type ShareRequest struct {
	DocumentRequest
	Channel   string `json:"channel" validate:"required,oneof=whatsapp email link"`
	Recipient string `json:"recipient" validate:"required_unless=Channel link"`
	Message   string `json:"message"`
}

// ShareResponse enlace del documento subido y enlace de compartir según el canal.
type ShareResponse struct {
	Channel     string `json:"channel"`
	DocumentURL string `json:"document_url"`
	ShareURL    string `json:"share_url"`
	FileName    string `json:"file_name"`
}
