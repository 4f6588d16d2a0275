package utils

import (
	"fmt"

	"tienda_back_end/internal/models"
)

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande.
// Les lignes reprennent le snapshot (nom, prix unitaire) figé au checkout.
func GenerateOrderConfirmationHTML(order models.Order, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	qrHTML := ""
	if qrBase64 != "" {
		qrHTML = fmt.Sprintf(`<p>Référence de paiement :</p><img src="%s" alt="QR" width="128" height="128"/>`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Merci pour votre commande !</h2>
	<p>Commande <strong>#%s</strong> — statut : <strong>%s</strong></p>
	<p>Adresse de livraison : %s</p>
	<table width="100%%" cellpadding="6" style="border-collapse: collapse;">
		<tr style="background: #f3f4f6;">
			<th align="left">Produit</th>
			<th align="left">Quantité</th>
			<th align="left">Prix unitaire</th>
			<th align="left">Sous-total</th>
		</tr>%s
	</table>
	<h3>Total : %.2f€</h3>
	%s
</body>
</html>`, order.ID.String(), order.Status, order.ShippingAddress, itemsHTML, order.Total, qrHTML)
}
