package enums

import (
	"fmt"
	"strings"
)

// SubscriptionStatus is the stored state of a member's plan. Provider-only
// states such as "incomplete" are never persisted.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
)

var subscriptionStatuses = map[SubscriptionStatus]struct{}{
	SubscriptionStatusActive:   {},
	SubscriptionStatusCanceled: {},
	SubscriptionStatusPastDue:  {},
	SubscriptionStatusTrialing: {},
}

func (s SubscriptionStatus) String() string { return string(s) }

func (s SubscriptionStatus) IsValid() bool {
	_, ok := subscriptionStatuses[s]
	return ok
}

// Current reports whether the subscription is the member's live plan. Only
// active rows are surfaced as the current subscription.
func (s SubscriptionStatus) Current() bool {
	return s == SubscriptionStatusActive
}

func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid subscription status %q", value)
	}
	return s, nil
}
