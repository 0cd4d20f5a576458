package notify

import (
	"fmt"
	"loadboard-service/internal/domain"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Draft is a pre-filled email that a mail client opens from a mailto link.
type Draft struct {
	To      string   `json:"to"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// MailtoURL renders the draft as a mailto: link. Query values are percent
// encoded with %20 for spaces so every mail client reads them the same way.
func (d Draft) MailtoURL() string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(d.To)

	sep := "?"
	add := func(key, value string) {
		b.WriteString(sep)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(escape(value))
		sep = "&"
	}

	if len(d.Bcc) > 0 {
		add("bcc", strings.Join(d.Bcc, ","))
	}
	add("subject", d.Subject)
	add("body", d.Body)

	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

const divider = "--------------------------------------------------"

// NewLoadDraft announces load to subscribers, who are blind-copied so they
// never see each other's addresses.
func NewLoadDraft(recipient string, load domain.Load, subscribers []string) Draft {
	subject := fmt.Sprintf("New Freight Available: %s to %s", load.Origin, firstDestination(load))
	if n := len(load.Destinations); n > 1 {
		subject += fmt.Sprintf(" (+%d drops)", n-1)
	}

	var body strings.Builder
	body.WriteString("A new load has been posted and is available for bidding.\n\n")
	body.WriteString("Load Details:\n")
	body.WriteString(divider + "\n")
	fmt.Fprintf(&body, "Item: %s\n", strings.Join(load.ItemDescriptions, ", "))
	fmt.Fprintf(&body, "Reference #: %s\n", orNA(load.ReferenceNumber))
	fmt.Fprintf(&body, "Origin: %s\n", load.Origin)
	writeDestinations(&body, load.Destinations)
	fmt.Fprintf(&body, "Pickup Date: %s\n", longDate(load.PickupDate))
	fmt.Fprintf(&body, "Delivery Date: %s\n", longDate(load.DeliveryDate))
	fmt.Fprintf(&body, "Pallet Count: %s\n", groupThousands(int64(load.PalletCount)))
	fmt.Fprintf(&body, "Weight: %s lbs\n", groupThousands(int64(load.Weight)))
	fmt.Fprintf(&body, "Equipment: %s\n", load.EquipmentType)
	body.WriteString(divider + "\n")
	fmt.Fprintf(&body, "Details:\n%s\n", load.Details)
	body.WriteString(divider + "\n")
	body.WriteString("To place your bid, please visit the loadboard.\n\n")
	body.WriteString("Thank you,\nTarget Distribution")

	return Draft{
		To:      recipient,
		Bcc:     append([]string(nil), subscribers...),
		Subject: subject,
		Body:    body.String(),
	}
}

// BidDraft is the email a carrier sends to the load's poster to place bid.
func BidDraft(recipient string, load domain.Load, bid domain.Bid) Draft {
	ref := load.ReferenceNumber
	if ref == "" {
		ref = load.ID
	}

	subject := fmt.Sprintf("Bid for Load #%s: %s to %s",
		ref, FormatLocation(load.Origin), FormatLocation(firstDestination(load)))
	if len(load.Destinations) > 1 {
		subject += " (+ multi-stop)"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "We can move this shipment for Bid Amount: %s\n", currency(bid.Amount))
	if bid.TransitDays > 0 {
		fmt.Fprintf(&body, "Days In Transit: %d\n", bid.TransitDays)
	}
	body.WriteString("\n")
	fmt.Fprintf(&body, "Reference #: %s\n", orNA(load.ReferenceNumber))
	fmt.Fprintf(&body, "Origin: %s\n", load.Origin)
	writeDestinations(&body, load.Destinations)
	fmt.Fprintf(&body, "Pickup Date: %s\n", shortDate(load.PickupDate))
	fmt.Fprintf(&body, "Delivery Date: %s\n", shortDate(load.DeliveryDate))
	fmt.Fprintf(&body, "Equipment: %s\n", load.EquipmentType)
	fmt.Fprintf(&body, "Pallet Count: %d\n", load.PalletCount)
	fmt.Fprintf(&body, "Weight: %s lbs\n", groupThousands(int64(load.Weight)))
	fmt.Fprintf(&body, "Details: %s\n\n", load.Details)
	fmt.Fprintf(&body, "Thank you,\n%s\n", bid.CarrierName)

	return Draft{To: recipient, Subject: subject, Body: body.String()}
}

// FormatLocation shortens a full street address to "City, ST". Anything
// that does not start with a digit, or has fewer than three comma-separated
// parts, is returned unchanged.
func FormatLocation(location string) string {
	if location == "" || location[0] < '0' || location[0] > '9' {
		return location
	}

	parts := strings.Split(location, ",")
	if len(parts) < 3 {
		return location
	}

	state, _, _ := strings.Cut(strings.TrimSpace(parts[2]), " ")
	return strings.TrimSpace(parts[1]) + ", " + state
}

func firstDestination(load domain.Load) string {
	if len(load.Destinations) == 0 {
		return ""
	}
	return load.Destinations[0]
}

func writeDestinations(b *strings.Builder, dests []string) {
	for i, d := range dests {
		fmt.Fprintf(b, "Destination %d: %s\n", i+1, d)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func longDate(s string) string  { return formatDate(s, "January 2, 2006") }
func shortDate(s string) string { return formatDate(s, "Jan 2, 2006") }

func formatDate(s, layout string) string {
	if s == "" {
		return "N/A"
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(layout)
}

// groupThousands renders n with comma separators, e.g. 15000 -> "15,000".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-" + groupDigits(rest)
	}
	return groupDigits(s)
}

func groupDigits(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// currency renders a dollar amount, dropping the cents when there are none.
// Formatting goes through the decimal text so very large amounts stay exact.
func currency(amount float64) string {
	whole, cents, _ := strings.Cut(strconv.FormatFloat(amount, 'f', 2, 64), ".")
	neg := strings.HasPrefix(whole, "-")
	whole = groupDigits(strings.TrimPrefix(whole, "-"))
	if neg {
		whole = "-" + whole
	}
	if cents == "" || cents == "00" {
		return "$" + whole
	}
	return "$" + whole + "." + cents
}
