package notify

import (
	"fmt"
	"time"
)

// TextMessage is the minimal chat webhook payload.
type TextMessage struct {
	Text string `json:"text"`
}

// CardMessage is the Google Chat cardsV2 payload.
type CardMessage struct {
	CardsV2 []CardV2 `json:"cardsV2"`
}

type CardV2 struct {
	CardID string `json:"cardId"`
	Card   Card   `json:"card"`
}

type Card struct {
	Header   CardHeader    `json:"header"`
	Sections []CardSection `json:"sections"`
}

type CardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type CardSection struct {
	Widgets []CardWidget `json:"widgets"`
}

type CardWidget struct {
	DecoratedText *DecoratedText `json:"decoratedText,omitempty"`
}

type DecoratedText struct {
	TopLabel string `json:"topLabel,omitempty"`
	Text     string `json:"text"`
}

// BreakGlassCard builds the alert card posted when emergency access is
// requested.
func BreakGlassCard(requesterEmail, itemTitle, reason, requestID string) CardMessage {
	return CardMessage{
		CardsV2: []CardV2{{
			CardID: "breakglass-" + requestID,
			Card: Card{
				Header: CardHeader{
					Title:    "🚨 Emergency Access Requested",
					Subtitle: requesterEmail,
				},
				Sections: []CardSection{{
					Widgets: []CardWidget{
						{DecoratedText: &DecoratedText{TopLabel: "Item", Text: itemTitle}},
						{DecoratedText: &DecoratedText{TopLabel: "Reason", Text: reason}},
						{DecoratedText: &DecoratedText{TopLabel: "Request", Text: requestID}},
					},
				}},
			},
		}},
	}
}

// RevealAlert builds the text alert for a high-criticality reveal. It names
// the item, its vault path, the actor, and the source address.
func RevealAlert(userEmail, itemTitle, vaultPath, clientIP string) TextMessage {
	return TextMessage{
		Text: fmt.Sprintf("🔓 Critical password revealed!\n\nItem: %s\nVault: %s\nUser: %s\nIP: %s",
			itemTitle, vaultPath, userEmail, clientIP),
	}
}

// JITRequestAlert announces a new time-boxed access request.
func JITRequestAlert(userEmail, itemTitle, vaultPath, reason string, durationHours int) TextMessage {
	return TextMessage{
		Text: fmt.Sprintf("⏰ JIT Access Request\n\nUser: %s\nItem: %s\nVault: %s\nDuration: %dh\nReason: %s",
			userEmail, itemTitle, vaultPath, durationHours, reason),
	}
}

// JITApprovedAlert announces a granted request and when it lapses.
func JITApprovedAlert(requesterName, itemTitle, approverEmail string, expiresAt time.Time) TextMessage {
	return TextMessage{
		Text: fmt.Sprintf("✅ JIT Access Approved!\n\nRequester: %s\nItem: %s\nApproved by: %s\nExpires: %s",
			requesterName, itemTitle, approverEmail, expiresAt.UTC().Format("2006-01-02 15:04 UTC")),
	}
}

// BreakGlassApprovedAlert announces that emergency access was granted.
func BreakGlassApprovedAlert(requesterName, itemTitle, approverEmail string) TextMessage {
	return TextMessage{
		Text: fmt.Sprintf("✅ BREAK-GLASS APPROVED\n\nRequester: %s\nItem: %s\nApproved by: %s\n\n🔓 Emergency access granted!",
			requesterName, itemTitle, approverEmail),
	}
}
