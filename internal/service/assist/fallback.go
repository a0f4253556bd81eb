package assist

import (
	"fmt"
	"strings"
)

// FallbackSource tags replies produced by the canned-answer path.
const FallbackSource = "marketplace-fallback"

// fallbackRule pairs a predicate over the lowercased message with a template
// over the original one. Rules are evaluated top to bottom; adding a topic
// means appending a rule, not growing a conditional chain.
type fallbackRule struct {
	match   func(lowered string) bool
	respond func(original string) string
}

var fallbackRules = []fallbackRule{
	{
		match: matchAny("search", "find", "where"),
		respond: func(original string) string {
			return fmt.Sprintf("You can look for %q using the search bar at the top of the page. "+
				"Matching products from every partner pharmacy are listed together, so you can compare "+
				"prices and delivery options before you order.", original)
		},
	},
	{
		match: matchAny("price", "cost", "how much"),
		respond: func(string) string {
			return "Prices often differ between pharmacies. Search for the medication you need and the " +
				"marketplace will show each pharmacy's price side by side, so you can pick the cheapest " +
				"offer or the fastest delivery."
		},
	},
	{
		match: matchAny("deliver"),
		respond: func(string) string {
			return "Delivery is handled by each pharmacy individually. A product page lists the delivery " +
				"options and estimated times every pharmacy offers for your area, and you can track an " +
				"order from your profile once it ships."
		},
	},
	{
		match: func(lowered string) bool {
			return strings.Contains(lowered, "pharmacy") && strings.Contains(lowered, "register")
		},
		respond: func(string) string {
			return "To join the marketplace as a pharmacy, open the pharmacist registration page and submit " +
				"your license details. Once an administrator verifies the application you can manage your " +
				"inventory and start receiving orders."
		},
	},
	{
		match: matchAny("prescription"),
		respond: func(string) string {
			return "For prescription medication, upload a photo of your prescription during checkout and the " +
				"dispensing pharmacist will verify it before the order is confirmed. Over-the-counter " +
				"products need no prescription."
		},
	},
}

const genericFallbackReply = "I can help you navigate the marketplace: searching for medications, comparing " +
	"prices between pharmacies, checking delivery options, registering a pharmacy, and tracking orders. " +
	"What would you like to do? For questions about your health or how to take a medication, please talk " +
	"to a licensed pharmacist or doctor."

// ResolveFallback maps any non-empty message to a canned reply. It is a pure
// function: no state, no network, and the same message always yields the
// same text. The first matching rule wins; unmatched messages get the
// generic capabilities reply.
func ResolveFallback(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range fallbackRules {
		if rule.match(lowered) {
			return rule.respond(message)
		}
	}
	return genericFallbackReply
}

func matchAny(keywords ...string) func(string) bool {
	return func(lowered string) bool {
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
		return false
	}
}
