package service

import (
	"strconv"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// fallbackMessage covers every (role, type) pair without a template.
const fallbackMessage = "You have a new notification."

// renderMessage produces the role-specific text for one recipient.  It is a
// pure function of the recipient role, the event type, the resolved sender
// and the (possibly backfilled) event fields.  Attendees see confirmations,
// partners see actor attributions, admins see attention requests with actor
// and amount.
func renderMessage(role model.Role, typ model.NotificationType, sender *model.Principal, ev model.NotificationEvent) string {
	actor := sender.ActorName()
	venue := ev.VenueName
	if venue == "" {
		venue = "the venue"
	}
	amount := formatAmount(ev.TotalAmount)

	switch role {
	case model.RoleAttendee:
		switch typ {
		case model.TypeBookingCreated:
			if ev.BookedTime != "" {
				return "Your booking for " + venue + " on " + ev.BookedTime + " has been confirmed."
			}
			return "Your booking for " + venue + " has been confirmed."
		case model.TypeBookingCancelled:
			return "Your booking for " + venue + " has been cancelled."
		case model.TypeOrderPlaced:
			return "Your order has been placed successfully."
		case model.TypePaymentReceived:
			return "We received your payment of Rs. " + amount + "."
		case model.TypeDonationReceived:
			return "Thank you for your donation of Rs. " + amount + "."
		}
	case model.RolePartner:
		switch typ {
		case model.TypeBookingCreated:
			if ev.BookedTime != "" {
				return actor + " booked " + venue + " for " + ev.BookedTime + "."
			}
			return actor + " booked " + venue + "."
		case model.TypeBookingCancelled:
			return actor + " cancelled a booking at " + venue + "."
		case model.TypeOrderPlaced:
			return actor + " placed a new order."
		case model.TypePaymentReceived:
			return actor + " completed a payment of Rs. " + amount + "."
		case model.TypeDonationReceived:
			return actor + " donated Rs. " + amount + "."
		}
	case model.RoleAdmin:
		switch typ {
		case model.TypeBookingCreated:
			return "New booking by " + actor + " at " + venue + " for Rs. " + amount + " requires attention."
		case model.TypeBookingCancelled:
			return actor + " cancelled a booking at " + venue + "; please review."
		case model.TypeOrderPlaced:
			return "New order by " + actor + " for Rs. " + amount + " requires attention."
		case model.TypePaymentReceived:
			return "Payment of Rs. " + amount + " received from " + actor + "."
		case model.TypeDonationReceived:
			return "Donation of Rs. " + amount + " received from " + actor + "."
		}
	}
	return fallbackMessage
}

func formatAmount(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
