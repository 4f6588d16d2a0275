package utils

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"

	"tienda_back_end/internal/models"
)

// GeneratePaymentReferenceQR génère un QR (base64, prêt pour <img src>)
// contenant la référence du paiement simulé d'une commande.
func GeneratePaymentReferenceQR(order models.Order) (string, error) {
	ref := fmt.Sprintf("TIENDA/%s/%.2f/%s", order.ID.String(), order.Total, order.Status)

	png, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// SendOrderConfirmation envoie l'e-mail de confirmation de commande.
// Appelé en fire-and-forget après le checkout : un échec SMTP ne doit
// jamais faire échouer la commande déjà enregistrée.
func SendOrderConfirmation(to string, order models.Order) error {
	qrBase64, err := GeneratePaymentReferenceQR(order)
	if err != nil {
		log.Println("⚠️ QR non généré, e-mail envoyé sans référence:", err)
		qrBase64 = ""
	}

	htmlBody := GenerateOrderConfirmationHTML(order, qrBase64)

	msg := mail.NewMsg()
	if err := msg.From(fromAddress()); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de commande #%s", order.ID.String()))
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", to)
	return client.DialAndSend(msg)
}

func fromAddress() string {
	if from := os.Getenv("SMTP_FROM"); from != "" {
		return from
	}
	return "noreply@tienda.local"
}
