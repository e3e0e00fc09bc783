package http

import (
	"net/mail"
	"unicode/utf8"
)

// Field constraints mirror the storefront's submission forms: they gate the
// write, nothing more. Anything deeper (pricing, stock) belongs to the
// database constraints.

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

type contactForm struct {
	Name    string `json:"nombre"`
	Phone   string `json:"telefono"`
	Email   string `json:"email"`
	Message string `json:"mensaje"`
}

func (f contactForm) validate() map[string]string {
	fields := make(map[string]string)
	if !lengthBetween(f.Name, 2, 50) {
		fields["nombre"] = "name must be between 2 and 50 characters"
	}
	if !lengthBetween(f.Phone, 8, 15) {
		fields["telefono"] = "phone must be between 8 and 15 characters"
	}
	if !validEmail(f.Email) {
		fields["email"] = "enter a valid email"
	}
	if !lengthBetween(f.Message, 10, 500) {
		fields["mensaje"] = "message must be between 10 and 500 characters"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (r checkoutRequest) validate() map[string]string {
	fields := make(map[string]string)
	if !lengthBetween(r.CustomerName, 2, 50) {
		fields["cliente_nombre"] = "name must be between 2 and 50 characters"
	}
	if !validEmail(r.CustomerEmail) {
		fields["cliente_email"] = "enter a valid email"
	}
	if r.CustomerPhone != "" && !lengthBetween(r.CustomerPhone, 8, 15) {
		fields["cliente_telefono"] = "phone must be between 8 and 15 characters"
	}
	if len(r.Items) == 0 {
		fields["items"] = "order must contain at least one product"
	}
	for _, it := range r.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 || !it.UnitPrice.IsPositive() {
			fields["items"] = "items must have positive product, quantity and unit price"
			break
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
