package stripe

import "strings"

// NormalizePaymentStatus collapses Stripe checkout payment statuses into the
// small set the payment history views rely on.
func NormalizePaymentStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "":
		return "unknown"
	case "paid", "no_payment_required":
		return "paid"
	case "unpaid":
		return "unpaid"
	default:
		return strings.TrimSpace(s)
	}
}
