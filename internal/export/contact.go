package export

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// Contact errors.
var (
	ErrNoPhone      = errors.New("booking has no phone")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// CountryPrefix is added to ten-digit Mexican numbers.
const CountryPrefix = "52"

// WhatsAppNumber strips everything but digits and adds the country prefix to
// bare ten-digit numbers.  Fewer than ten digits is invalid.
func WhatsAppNumber(phone string) (string, error) {
	digits := model.DigitsOnly(phone)
	if digits == "" {
		return "", ErrNoPhone
	}
	if len(digits) < model.MinPhoneDigits {
		return "", ErrInvalidPhone
	}
	if len(digits) == 10 && !strings.HasPrefix(digits, CountryPrefix) {
		digits = CountryPrefix + digits
	}
	return digits, nil
}

// ContactMessage is the prefilled WhatsApp text for a booking.
func ContactMessage(b model.Booking) string {
	return fmt.Sprintf("Hola! Te contacto desde Cabañas Huasca sobre tu reservación para %s del %s al %s.",
		b.Cabin.Name, b.CheckIn, b.CheckOut)
}

// WhatsAppLink returns the wa.me link that opens a chat with the guest.
func WhatsAppLink(b model.Booking) (string, error) {
	num, err := WhatsAppNumber(b.DisplayPhone())
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(url.QueryEscape(ContactMessage(b)), "+", "%20")
	return "https://wa.me/" + num + "?text=" + text, nil
}

// ContactQR encodes the WhatsApp link as a PNG of size pixels.
func ContactQR(b model.Booking, size int) ([]byte, error) {
	link, err := WhatsAppLink(b)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
