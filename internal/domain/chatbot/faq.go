// internal/domain/chatbot/faq.go
package chatbot

import (
	"fmt"
	"strings"

	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
	"github.com/sip-sunshine/restaurant-backend/internal/pkg/money"
)

// Intent names
const (
	IntentGreeting       = "greeting"
	IntentThanks         = "thanks"
	IntentGoodbye        = "goodbye"
	IntentHours          = "hours"
	IntentMenu           = "menu"
	IntentSpecials       = "specials"
	IntentContact        = "contact"
	IntentDeliveryPickup = "delivery_pickup"
	IntentReservation    = "reservation"
	IntentPayment        = "payment"
	IntentTracking       = "tracking"
	IntentApology        = "apology"
	IntentFallback       = "fallback"
	IntentEmpty          = "empty"
)

// Entry maps example phrasings to one canned answer
type Entry struct {
	Intent   string
	Examples []string
	Answer   string
}

// Info is what the answers are filled in from
type Info struct {
	SiteName          string
	Phone             string
	Email             string
	Address           string
	DeliveryEnabled   bool
	PickupEnabled     bool
	MinDeliveryAmount money.Amount
	MinPickupAmount   money.Amount
	PickupMinutes     int
	DeliveryMinutes   int
}

// NewInfo combines the restaurant's contact details with delivery settings
func NewInfo(cfg config.RestaurantConfig, ds settings.DeliverySettings) Info {
	name := cfg.SiteName
	if name == "" {
		name = "Sip and Sunshine"
	}
	return Info{
		SiteName:          name,
		Phone:             cfg.Phone,
		Email:             cfg.Email,
		Address:           cfg.Address,
		DeliveryEnabled:   ds.DeliveryEnabled,
		PickupEnabled:     ds.PickupEnabled,
		MinDeliveryAmount: ds.MinDeliveryAmount,
		MinPickupAmount:   ds.MinPickupAmount,
		PickupMinutes:     ds.EstimatedPickupMinutes,
		DeliveryMinutes:   ds.EstimatedDeliveryMinutes,
	}
}

func availability(on bool) string {
	if on {
		return "available"
	}
	return "not available"
}

func contactAnswer(info Info) string {
	var lines []string
	if info.Phone != "" {
		lines = append(lines, "Phone: "+info.Phone)
	}
	if info.Email != "" {
		lines = append(lines, "Email: "+info.Email)
	}
	if info.Address != "" {
		lines = append(lines, "Address: "+info.Address)
	}
	if len(lines) == 0 {
		return "You can reach us via the Contact page."
	}
	return strings.Join(lines, "\n")
}

func deliveryAnswer(info Info) string {
	return fmt.Sprintf("Delivery is currently %s. Pickup is currently %s.\n"+
		"Estimated pickup time: ~%d minutes.\n"+
		"Estimated delivery time: ~%d minutes.\n"+
		"Minimum delivery amount: €%s.\n"+
		"Minimum pickup amount: €%s.",
		availability(info.DeliveryEnabled),
		availability(info.PickupEnabled),
		info.PickupMinutes,
		info.DeliveryMinutes,
		info.MinDeliveryAmount,
		info.MinPickupAmount,
	)
}

// BuildFAQ returns the intent table in match order. The fallback entry has
// no examples and is only returned when nothing else scores high enough.
func BuildFAQ(info Info) []Entry {
	return []Entry{
		{
			Intent:   IntentGreeting,
			Examples: []string{"hi", "hello", "hey", "good morning", "good evening"},
			Answer: fmt.Sprintf("Hi! I’m the %s assistant. Ask me about menu, delivery, pickup, "+
				"reservations, or your order tracking.", info.SiteName),
		},
		{
			Intent:   IntentThanks,
			Examples: []string{"thanks", "thank you", "thx", "thanks a lot", "thank u"},
			Answer:   "You’re welcome! If you need anything else, just ask.",
		},
		{
			Intent:   IntentGoodbye,
			Examples: []string{"bye", "goodbye", "see you", "see ya"},
			Answer:   "Thanks for visiting! If you need help later, I’ll be here.",
		},
		{
			Intent:   IntentHours,
			Examples: []string{"open hours", "opening hours", "what time are you open", "when do you close"},
			Answer:   "Our opening hours are shown in the footer. If you tell me the day, I can help you double-check.",
		},
		{
			Intent:   IntentMenu,
			Examples: []string{"menu", "show menu", "what do you have", "food", "drinks"},
			Answer:   "You can view our menu on the Menu page. Use “Add to Order” to build your cart and checkout.",
		},
		{
			Intent: IntentSpecials,
			Examples: []string{
				"special", "specials", "today's special", "todays special", "chef special",
				"chef's special", "featured", "featured item", "lunch menu", "lunch",
			},
			Answer: "For featured items and today’s specials, please check the Home page and the Menu page " +
				"(they’re kept up to date there).",
		},
		{
			Intent:   IntentContact,
			Examples: []string{"contact", "phone number", "email", "address", "location", "where are you"},
			Answer:   contactAnswer(info),
		},
		{
			Intent: IntentDeliveryPickup,
			Examples: []string{
				"do you deliver", "delivery", "pickup", "takeaway", "minimum order",
				"how long for delivery", "how long for pickup",
			},
			Answer: deliveryAnswer(info),
		},
		{
			Intent:   IntentReservation,
			Examples: []string{"reservation", "book a table", "table booking", "reserve"},
			Answer:   "You can reserve a table from the Reservation page in the menu.",
		},
		{
			Intent:   IntentPayment,
			Examples: []string{"payment", "pay", "cash", "card", "stripe", "paypal"},
			Answer:   "We support cash, Stripe (card), and PayPal for pickup/delivery. Dine-in is pay-at-table.",
		},
		{
			Intent: IntentTracking,
			Examples: []string{
				"my order", "track order", "order status", "where is my order", "tracking", "SIP-000015",
			},
			Answer: "You can track your order on the Track Order page. If you have an order reference " +
				"like SIP-000015, paste it there.",
		},
		{
			Intent:   IntentApology,
			Examples: []string{"sorry", "my bad", "apologies", "oops", "sry"},
			Answer:   "No worries, how can I help? You can ask about delivery, pickup, reservations, payments, or tracking.",
		},
		{
			Intent: IntentFallback,
			Answer: "I can help with delivery, pickup, reservations, payments, and tracking. " +
				"If you need a human, please use the Contact page.",
		},
	}
}
