package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/quotation"
)

// DocumentUseCase genera la cotización / proforma en PDF y la comparte (subida + enlace).
type DocumentUseCase struct {
	quotes       QuoteProvider
	formatter    DocumentFormatter
	uploader     DocumentUploader
	shareSubject string
	log          zerolog.Logger
	now          func() time.Time
}

// NewDocumentUseCase construye el caso de uso. shareSubject es el asunto de los correos.
func NewDocumentUseCase(
	quotes QuoteProvider,
	formatter DocumentFormatter,
	uploader DocumentUploader,
	shareSubject string,
	log zerolog.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		quotes:       quotes,
		formatter:    formatter,
		uploader:     uploader,
		shareSubject: shareSubject,
		log:          log.With().Str("component", "document").Logger(),
		now:          time.Now,
	}
}

// RenderQuotation arma el documento de la cotización y lo formatea.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrQuoteNotFound    si la cotización no está entre las pendientes.
//   - domain.ErrInvalidInput     si el anticipo no es un monto válido.
func (uc *DocumentUseCase) RenderQuotation(
	ctx context.Context,
	token string,
	quoteID int64,
	req dto.DocumentRequest,
) (pdfBytes []byte, filename string, err error) {
	doc, pdfBytes, err := uc.render(ctx, token, quoteID, req)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, documentFileName(doc), nil
}

func (uc *DocumentUseCase) render(
	ctx context.Context,
	token string,
	quoteID int64,
	req dto.DocumentRequest,
) (entity.QuotationDocument, []byte, error) {
	advance, err := paymentplan.ParseAmount(req.Advance)
	if err != nil {
		return entity.QuotationDocument{}, nil, err
	}

	// ── 1. Cotización ─────────────────────────────────────────────────────────
	quote, err := findQuote(ctx, uc.quotes, token, quoteID)
	if err != nil {
		return entity.QuotationDocument{}, nil, err
	}

	// ── 2. Proyección de solo lectura ─────────────────────────────────────────
	customer := entity.DocumentCustomer{
		Name:    req.CustomerName,
		Address: req.CustomerAddress,
		Phone:   req.CustomerPhone,
		Email:   req.CustomerEmail,
	}
	doc := quotation.BuildDocument(entity.DocumentKind(req.Kind), quote, customer, advance, uc.now())

	// ── 3. Formatear ──────────────────────────────────────────────────────────
	pdfBytes, err := uc.formatter.FormatQuotation(ctx, doc)
	if err != nil {
		return entity.QuotationDocument{}, nil, fmt.Errorf("documento: formateo fallido: %w", err)
	}
	return doc, pdfBytes, nil
}

// ShareQuotation genera el PDF, lo sube al backend y arma el enlace para el canal pedido.
func (uc *DocumentUseCase) ShareQuotation(
	ctx context.Context,
	token string,
	quoteID int64,
	req dto.ShareRequest,
) (*dto.ShareResponse, error) {
	channel := ShareChannel(req.Channel)
	if err := ValidateRecipient(channel, req.Recipient); err != nil {
		return nil, err
	}

	doc, pdfBytes, err := uc.render(ctx, token, quoteID, req.DocumentRequest)
	if err != nil {
		return nil, err
	}
	filename := documentFileName(doc)

	url, err := uc.uploader.UploadDocument(ctx, token, dto.DocumentUploadRequest{
		File:                   pdfBytes,
		FileName:               filename,
		InquiryID:              strconv.FormatInt(quoteID, 10),
		InqCode:                doc.Number,
		DocumentType:           string(doc.Kind),
		DocumentContentType:    "application/pdf",
		DocumentSubContentType: "pdf",
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("quote_id", quoteID).Msg("subida de documento fallida")
		return nil, fmt.Errorf("subir documento: %w", err)
	}

	message := req.Message
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Please find your %s %s here:", strings.ToLower(doc.Kind.Title()), doc.Number)
	}
	shareURL, err := BuildShareLink(channel, req.Recipient, uc.shareSubject, message, url)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("quote_id", quoteID).Str("channel", string(channel)).Msg("documento compartido")

	return &dto.ShareResponse{
		Channel:     string(channel),
		DocumentURL: url,
		ShareURL:    shareURL,
		FileName:    filename,
	}, nil
}

// documentFileName "quotation_QT-0007.pdf" / "proforma_QT-0007.pdf".
func documentFileName(doc entity.QuotationDocument) string {
	number := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '/':
			return '-'
		}
		return -1
	}, doc.Number)
	if number == "" {
		number = doc.Date.Format("20060102")
	}
	return fmt.Sprintf("%s_%s.pdf", doc.Kind, number)
}
